package export

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
)

// shareVersion is the current share payload envelope version.
const shareVersion = 1

// shareURLTokenLength is how much of the token appears in the share URL.
const shareURLTokenLength = 12

// sharePayload is the envelope encoded into a share token.
type sharePayload struct {
	Version     int            `json:"v"`
	GeneratedAt int64          `json:"ts"` // epoch milliseconds
	Data        []shareExpense `json:"data"`
}

// shareExpense uses single-letter keys to keep tokens short.
type shareExpense struct {
	Date        string  `json:"d"`
	Category    string  `json:"c"`
	Amount      float64 `json:"a"`
	Description string  `json:"n"`
}

// EncodeShareToken packs expenses into an opaque, URL-safe token: a
// versioned JSON envelope encoded as unpadded URL-safe base64.
func EncodeShareToken(expenses []model.Expense, generatedAt time.Time) (string, error) {
	payload := sharePayload{
		Version:     shareVersion,
		GeneratedAt: generatedAt.UnixMilli(),
		Data:        make([]shareExpense, 0, len(expenses)),
	}
	for _, e := range expenses {
		payload.Data = append(payload.Data, shareExpense{
			Date:        e.Date,
			Category:    string(e.Category),
			Amount:      e.Amount,
			Description: e.Description,
		})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal share payload: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeShareToken is the inverse of EncodeShareToken. The CLI uses it for
// `share decode`; the web viewer does its own decoding of the same envelope.
func DecodeShareToken(token string) ([]model.Expense, time.Time, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("malformed share token: %w", err)
	}

	var payload sharePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, time.Time{}, fmt.Errorf("malformed share payload: %w", err)
	}
	if payload.Version != shareVersion {
		return nil, time.Time{}, fmt.Errorf("unsupported share payload version %d", payload.Version)
	}

	expenses := make([]model.Expense, 0, len(payload.Data))
	for _, d := range payload.Data {
		expenses = append(expenses, model.Expense{
			Date:        d.Date,
			Category:    model.Category(d.Category),
			Amount:      d.Amount,
			Description: d.Description,
		})
	}
	return expenses, time.UnixMilli(payload.GeneratedAt), nil
}

// BuildShareURL renders the shareable link for a token.
func BuildShareURL(origin, token string) string {
	if len(token) > shareURLTokenLength {
		token = token[:shareURLTokenLength]
	}
	return origin + "/shared/" + token
}
