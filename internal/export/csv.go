package export

import (
	"fmt"
	"strings"

	"github.com/outlay-cli/outlay/internal/model"
)

// MediaTypeCSV is the media type attached to CSV output.
const MediaTypeCSV = "text/csv; charset=utf-8"

var csvHeader = []string{"Date", "Category", "Amount", "Description"}

// GenerateCSV renders expenses as a CSV document: a header row followed by
// one row per expense, rows joined by \n with no trailing newline. Amounts
// carry exactly two fractional digits. Only the description is quoted, and
// only when it needs to be; dates and categories are constrained enough to
// never require escaping.
func GenerateCSV(expenses []model.Expense) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, e := range expenses {
		b.WriteByte('\n')
		b.WriteString(e.Date)
		b.WriteByte(',')
		b.WriteString(string(e.Category))
		b.WriteByte(',')
		fmt.Fprintf(&b, "%.2f", e.Amount)
		b.WriteByte(',')
		b.WriteString(escapeCSVField(e.Description))
	}
	return b.String()
}

// escapeCSVField applies minimal RFC 4180 quoting: wrap in double quotes,
// doubling embedded quotes, only when the field contains a comma, quote, or
// newline.
func escapeCSVField(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
