// Package export implements the report generation engine: filtering,
// format generators (CSV, JSON, HTML report), the orchestrator, named
// export templates, and share-token encoding.
package export

import (
	"sort"

	"github.com/outlay-cli/outlay/internal/model"
)

// Options carries the inputs for one export operation.
type Options struct {
	Format     model.Format
	Filename   string // extension-less base; the engine appends the right one
	DateFrom   string // inclusive, "" = unbounded
	DateTo     string // inclusive, "" = unbounded
	Categories []model.Category
}

// Filter returns the expenses passing the export filter. Date bounds are
// inclusive lexical comparisons on the YYYY-MM-DD strings. An empty category
// set, or a set covering the whole enumeration, means no category filtering
// at all: an empty selection is "everything", never "nothing".
func Filter(expenses []model.Expense, opts Options) []model.Expense {
	applyCategories := len(opts.Categories) > 0 && len(opts.Categories) < len(model.Categories())
	allowed := make(map[model.Category]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		allowed[c] = true
	}

	filtered := make([]model.Expense, 0, len(expenses))
	for _, e := range expenses {
		if opts.DateFrom != "" && e.Date < opts.DateFrom {
			continue
		}
		if opts.DateTo != "" && e.Date > opts.DateTo {
			continue
		}
		if applyCategories && !allowed[e.Category] {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// SortByDateDesc returns a copy sorted most-recent-first, the order every
// generator expects. The sort is stable so equal dates keep input order.
func SortByDateDesc(expenses []model.Expense) []model.Expense {
	sorted := make([]model.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})
	return sorted
}
