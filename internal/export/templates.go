package export

import (
	"sort"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
)

// FilterFunc selects the records a template exports. Implementations must be
// pure: no mutation of the input slice, no side effects.
type FilterFunc func(expenses []model.Expense, now time.Time) []model.Expense

// Template is a named export preset: a default format plus a record
// predicate. New templates only need a registry entry; the engine itself
// never changes.
type Template struct {
	ID          string
	Name        string
	Description string
	Format      model.Format
	Filter      FilterFunc
}

// Select applies the template's predicate. A nil predicate exports
// everything.
func (t Template) Select(expenses []model.Expense, now time.Time) []model.Expense {
	if t.Filter == nil {
		return expenses
	}
	return t.Filter(expenses, now)
}

// TemplateRegistry is a lookup table of export templates.
type TemplateRegistry struct {
	templates map[string]Template
}

// NewTemplateRegistry creates an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]Template)}
}

// Register adds or replaces a template.
func (r *TemplateRegistry) Register(t Template) {
	r.templates[t.ID] = t
}

// Get looks up a template by id.
func (r *TemplateRegistry) Get(id string) (Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// All returns every registered template, ordered by id.
func (r *TemplateRegistry) All() []Template {
	all := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// taxCategories are the deductible categories included in the tax report.
var taxCategories = map[model.Category]bool{
	model.CategoryTransportation: true,
	model.CategoryBills:          true,
	model.CategoryFood:           true,
}

// DefaultTemplates returns the built-in export presets.
func DefaultTemplates() *TemplateRegistry {
	r := NewTemplateRegistry()

	r.Register(Template{
		ID:          "full-export",
		Name:        "Full Export",
		Description: "All expenses with every detail",
		Format:      model.FormatCSV,
	})

	r.Register(Template{
		ID:          "tax-report",
		Name:        "Tax Report",
		Description: "Deductible categories formatted for tax filing",
		Format:      model.FormatPDF,
		Filter: func(expenses []model.Expense, _ time.Time) []model.Expense {
			kept := make([]model.Expense, 0, len(expenses))
			for _, e := range expenses {
				if taxCategories[e.Category] {
					kept = append(kept, e)
				}
			}
			return kept
		},
	})

	r.Register(Template{
		ID:          "monthly-summary",
		Name:        "Monthly Summary",
		Description: "Current month expenses",
		Format:      model.FormatCSV,
		Filter: func(expenses []model.Expense, now time.Time) []model.Expense {
			key := now.Format("2006-01")
			kept := make([]model.Expense, 0, len(expenses))
			for _, e := range expenses {
				if e.MonthKey() == key {
					kept = append(kept, e)
				}
			}
			return kept
		},
	})

	r.Register(Template{
		ID:          "category-analysis",
		Name:        "Category Analysis",
		Description: "Spending breakdown by category with totals",
		Format:      model.FormatJSON,
	})

	return r
}
