package export

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
)

// MediaTypeHTML is the media type attached to the HTML report. The "pdf"
// format produces this document; printing it from a browser yields the PDF.
const MediaTypeHTML = "text/html; charset=utf-8"

// reportData feeds the HTML report template.
type reportData struct {
	GeneratedOn string
	Total       string
	RecordCount int
	DateRange   string
	Categories  []reportCategoryRow
	Expenses    []reportExpenseRow
}

type reportCategoryRow struct {
	Category string
	Count    int
	Total    string
}

type reportExpenseRow struct {
	Date        string
	Category    string
	Description string
	Amount      string
}

// GenerateHTMLReport renders a self-contained, printable HTML report from an
// already date-descending sequence of expenses. The date range tile reads
// "oldest — newest" off the ends of that sequence, and falls back to "N/A"
// for an empty export rather than indexing an empty slice.
func GenerateHTMLReport(expenses []model.Expense, generatedAt time.Time) (string, error) {
	data := reportData{
		GeneratedOn: generatedAt.Format("January 2, 2006"),
		Total:       report.FormatCurrency(report.TotalSpending(expenses)),
		RecordCount: len(expenses),
		DateRange:   "N/A",
	}
	if len(expenses) > 0 {
		// Input is newest-first, so the range runs last element to first.
		data.DateRange = expenses[len(expenses)-1].Date + " — " + expenses[0].Date
	}

	for _, ct := range report.CategoryTotals(expenses) {
		data.Categories = append(data.Categories, reportCategoryRow{
			Category: string(ct.Category),
			Count:    ct.Count,
			Total:    report.FormatCurrency(ct.Total),
		})
	}

	for _, e := range expenses {
		data.Expenses = append(data.Expenses, reportExpenseRow{
			Date:        e.Date,
			Category:    string(e.Category),
			Description: e.Description,
			Amount:      report.FormatCurrency(e.Amount),
		})
	}

	var b strings.Builder
	if err := reportTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return b.String(), nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Expense Report</title>
<style>
  @media print { body { print-color-adjust: exact; -webkit-print-color-adjust: exact; } }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; color: #1e293b; max-width: 800px; margin: 0 auto; padding: 40px 24px; }
  h1 { font-size: 24px; margin: 0 0 4px; }
  .subtitle { color: #64748b; font-size: 14px; margin-bottom: 32px; }
  .summary-grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; margin-bottom: 32px; }
  .summary-card { background: #f8fafc; border: 1px solid #e2e8f0; border-radius: 8px; padding: 16px; }
  .summary-card .label { font-size: 12px; color: #64748b; text-transform: uppercase; letter-spacing: 0.05em; }
  .summary-card .value { font-size: 22px; font-weight: 700; margin-top: 4px; }
  h2 { font-size: 16px; margin: 32px 0 12px; padding-bottom: 8px; border-bottom: 2px solid #10b981; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th { text-align: left; padding: 8px 12px; background: #f1f5f9; border-bottom: 2px solid #cbd5e1; font-weight: 600; }
  th.right { text-align: right; }
  th.center { text-align: center; }
  td { padding: 6px 12px; border-bottom: 1px solid #e2e8f0; }
  td.right { text-align: right; }
  td.center { text-align: center; }
  .total-row td { font-weight: 700; border-top: 2px solid #1e293b; border-bottom: none; padding-top: 10px; }
  .footer { margin-top: 40px; padding-top: 16px; border-top: 1px solid #e2e8f0; font-size: 11px; color: #94a3b8; text-align: center; }
</style>
</head>
<body>
  <h1>Expense Report</h1>
  <p class="subtitle">Generated on {{.GeneratedOn}}</p>

  <div class="summary-grid">
    <div class="summary-card"><div class="label">Total Expenses</div><div class="value">{{.Total}}</div></div>
    <div class="summary-card"><div class="label">Records</div><div class="value">{{.RecordCount}}</div></div>
    <div class="summary-card"><div class="label">Date Range</div><div class="value" style="font-size:14px">{{.DateRange}}</div></div>
  </div>

  <h2>Category Summary</h2>
  <table>
    <thead><tr><th>Category</th><th class="center">Count</th><th class="right">Total</th></tr></thead>
    <tbody>
    {{- range .Categories}}
      <tr><td>{{.Category}}</td><td class="center">{{.Count}}</td><td class="right">{{.Total}}</td></tr>
    {{- end}}
    </tbody>
  </table>

  <h2>All Expenses</h2>
  <table>
    <thead><tr><th>Date</th><th>Category</th><th>Description</th><th class="right">Amount</th></tr></thead>
    <tbody>
    {{- range .Expenses}}
      <tr><td>{{.Date}}</td><td>{{.Category}}</td><td>{{.Description}}</td><td class="right">{{.Amount}}</td></tr>
    {{- end}}
      <tr class="total-row"><td colspan="3">Total</td><td class="right">{{.Total}}</td></tr>
    </tbody>
  </table>

  <div class="footer">outlay &mdash; exported report. Open in a browser and use Print &rarr; Save as PDF for a PDF copy.</div>
</body>
</html>
`))
