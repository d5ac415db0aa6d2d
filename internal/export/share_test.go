package export

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
)

func TestShareToken_RoundTrip(t *testing.T) {
	expenses := []model.Expense{
		{Date: "2024-01-05", Category: model.CategoryFood, Amount: 12.50, Description: "Lunch"},
		{Date: "2024-02-10", Category: model.CategoryBills, Amount: 100, Description: "Electric, bill"},
	}
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	token, err := EncodeShareToken(expenses, ts)
	if err != nil {
		t.Fatalf("EncodeShareToken() error = %v", err)
	}

	decoded, decodedTS, err := DecodeShareToken(token)
	if err != nil {
		t.Fatalf("DecodeShareToken() error = %v", err)
	}

	if !decodedTS.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", decodedTS, ts)
	}
	if len(decoded) != len(expenses) {
		t.Fatalf("decoded %d expenses, want %d", len(decoded), len(expenses))
	}
	for i, e := range expenses {
		got := decoded[i]
		if got.Date != e.Date || got.Category != e.Category || got.Amount != e.Amount || got.Description != e.Description {
			t.Errorf("decoded[%d] = %+v, want %+v", i, got, e)
		}
	}
}

func TestShareToken_IsURLSafe(t *testing.T) {
	// Enough varied data to exercise bytes that standard base64 would encode
	// with + or /.
	var expenses []model.Expense
	for i := 0; i < 40; i++ {
		expenses = append(expenses, model.Expense{
			Date:        "2024-01-05",
			Category:    model.CategoryOther,
			Amount:      float64(i) + 0.99,
			Description: strings.Repeat("~?>", i),
		})
	}

	token, err := EncodeShareToken(expenses, time.Now())
	if err != nil {
		t.Fatalf("EncodeShareToken() error = %v", err)
	}

	if strings.ContainsAny(token, "+/=") {
		t.Errorf("token contains non-URL-safe characters: %q", token)
	}
}

func TestShareToken_EnvelopeShape(t *testing.T) {
	token, err := EncodeShareToken([]model.Expense{
		{Date: "2024-01-05", Category: model.CategoryFood, Amount: 12.5, Description: "Lunch"},
	}, time.UnixMilli(1710499800000))
	if err != nil {
		t.Fatalf("EncodeShareToken() error = %v", err)
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not unpadded URL-safe base64: %v", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	for _, key := range []string{"v", "ts", "data"} {
		if _, ok := envelope[key]; !ok {
			t.Errorf("envelope missing %q key", key)
		}
	}
	if string(envelope["v"]) != "1" {
		t.Errorf("version = %s, want 1", envelope["v"])
	}
	if string(envelope["ts"]) != "1710499800000" {
		t.Errorf("ts = %s, want epoch millis", envelope["ts"])
	}
}

func TestDecodeShareToken_Malformed(t *testing.T) {
	if _, _, err := DecodeShareToken("not base64!!"); err == nil {
		t.Error("expected error for invalid base64")
	}
	garbage := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	if _, _, err := DecodeShareToken(garbage); err == nil {
		t.Error("expected error for non-JSON payload")
	}
}

func TestBuildShareURL(t *testing.T) {
	url := BuildShareURL("https://example.com", "abcdefghijklmnop")
	if url != "https://example.com/shared/abcdefghijkl" {
		t.Errorf("BuildShareURL() = %q", url)
	}

	short := BuildShareURL("https://example.com", "abc")
	if short != "https://example.com/shared/abc" {
		t.Errorf("BuildShareURL() short token = %q", short)
	}
}
