package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
	"github.com/outlay-cli/outlay/internal/report"
)

// MediaTypeJSON is the media type attached to JSON output.
const MediaTypeJSON = "application/json; charset=utf-8"

// jsonDocument is the wire shape of a JSON export: a metadata block followed
// by the four-field expense records. Field order is fixed for testability.
type jsonDocument struct {
	ExportedAt  string        `json:"exportedAt"`
	RecordCount int           `json:"recordCount"`
	TotalAmount float64       `json:"totalAmount"`
	Expenses    []jsonExpense `json:"expenses"`
}

type jsonExpense struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// GenerateJSON renders expenses as a pretty-printed JSON document with a
// two-space indent. The records appear in the given order.
func GenerateJSON(expenses []model.Expense, exportedAt time.Time) (string, error) {
	doc := jsonDocument{
		ExportedAt:  exportedAt.UTC().Format(time.RFC3339),
		RecordCount: len(expenses),
		TotalAmount: report.TotalSpending(expenses),
		Expenses:    make([]jsonExpense, 0, len(expenses)),
	}
	for _, e := range expenses {
		doc.Expenses = append(doc.Expenses, jsonExpense{
			Date:        e.Date,
			Category:    string(e.Category),
			Amount:      e.Amount,
			Description: e.Description,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal export document: %w", err)
	}
	return string(out), nil
}
