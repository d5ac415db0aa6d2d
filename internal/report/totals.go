// Package report computes the derived rollups behind the dashboard and the
// generated reports. All functions are pure; results are recomputed on each
// call and never persisted.
package report

import (
	"sort"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
)

// recentMonths bounds the monthly breakdown to the most recent months that
// actually contain expenses.
const recentMonths = 6

// CategoryTotals groups expenses by category and returns per-category sums,
// counts, and share of total spending, ordered by total descending. Equal
// totals fall back to canonical category order so output is reproducible.
func CategoryTotals(expenses []model.Expense) []model.CategoryTotal {
	sums := make(map[model.Category]*model.CategoryTotal)
	for _, e := range expenses {
		entry, ok := sums[e.Category]
		if !ok {
			entry = &model.CategoryTotal{Category: e.Category}
			sums[e.Category] = entry
		}
		entry.Total += e.Amount
		entry.Count++
	}

	grand := TotalSpending(expenses)
	totals := make([]model.CategoryTotal, 0, len(sums))
	for _, entry := range sums {
		if grand > 0 {
			entry.Percentage = entry.Total / grand * 100
		}
		totals = append(totals, *entry)
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category.Rank() < totals[j].Category.Rank()
	})

	return totals
}

// MonthlyTotals groups expenses by their YYYY-MM prefix and returns the most
// recent six months that contain at least one expense, ascending by month.
// Empty months are not synthesized, so the sequence may have gaps.
func MonthlyTotals(expenses []model.Expense) []model.MonthlyTotal {
	sums := make(map[string]float64)
	for _, e := range expenses {
		sums[e.MonthKey()] += e.Amount
	}

	totals := make([]model.MonthlyTotal, 0, len(sums))
	for month, total := range sums {
		totals = append(totals, model.MonthlyTotal{
			Month: month,
			Label: MonthLabel(month),
			Total: total,
		})
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Month < totals[j].Month
	})

	if len(totals) > recentMonths {
		totals = totals[len(totals)-recentMonths:]
	}
	return totals
}

// MonthLabel renders a month key as a short human label, e.g. "Jan 2024".
// Unparseable keys are returned unchanged.
func MonthLabel(monthKey string) string {
	t, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return monthKey
	}
	return t.Format("Jan 2006")
}

// TotalSpending sums every expense amount.
func TotalSpending(expenses []model.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}

// CurrentMonthSpending sums expenses dated in the month containing now.
func CurrentMonthSpending(expenses []model.Expense, now time.Time) float64 {
	key := now.Format("2006-01")
	var total float64
	for _, e := range expenses {
		if e.MonthKey() == key {
			total += e.Amount
		}
	}
	return total
}

// AverageExpense returns the mean amount, or 0 for an empty collection.
func AverageExpense(expenses []model.Expense) float64 {
	if len(expenses) == 0 {
		return 0
	}
	return TotalSpending(expenses) / float64(len(expenses))
}
