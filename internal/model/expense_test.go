package model

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExpense_Validate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	valid := Expense{
		ID:          "e1",
		Amount:      12.50,
		Category:    CategoryFood,
		Description: "Lunch",
		Date:        "2024-06-01",
		CreatedAt:   now,
	}

	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr bool
	}{
		{
			name:   "valid expense",
			mutate: func(_ *Expense) {},
		},
		{
			name:    "zero amount",
			mutate:  func(e *Expense) { e.Amount = 0 },
			wantErr: true,
		},
		{
			name:    "negative amount",
			mutate:  func(e *Expense) { e.Amount = -5 },
			wantErr: true,
		},
		{
			name:    "amount over limit",
			mutate:  func(e *Expense) { e.Amount = 1000000 },
			wantErr: true,
		},
		{
			name:   "amount at limit",
			mutate: func(e *Expense) { e.Amount = MaxAmount },
		},
		{
			name:    "three decimal places",
			mutate:  func(e *Expense) { e.Amount = 12.505 },
			wantErr: true,
		},
		{
			name:    "empty description",
			mutate:  func(e *Expense) { e.Description = "   " },
			wantErr: true,
		},
		{
			name:    "description too long",
			mutate:  func(e *Expense) { e.Description = strings.Repeat("x", 201) },
			wantErr: true,
		},
		{
			name:   "multibyte description at rune limit",
			mutate: func(e *Expense) { e.Description = strings.Repeat("é", 200) },
		},
		{
			name:    "multibyte description over rune limit",
			mutate:  func(e *Expense) { e.Description = strings.Repeat("é", 201) },
			wantErr: true,
		},
		{
			name:    "unknown category",
			mutate:  func(e *Expense) { e.Category = "Gambling" },
			wantErr: true,
		},
		{
			name:    "malformed date",
			mutate:  func(e *Expense) { e.Date = "06/01/2024" },
			wantErr: true,
		},
		{
			name:    "impossible date",
			mutate:  func(e *Expense) { e.Date = "2024-02-30" },
			wantErr: true,
		},
		{
			name:    "future date",
			mutate:  func(e *Expense) { e.Date = "2024-12-25" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			err := e.Validate(now)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error %v does not wrap ErrValidation", err)
			}
		})
	}
}

func TestFilters_Match(t *testing.T) {
	expense := Expense{
		ID:          "e1",
		Amount:      42,
		Category:    CategoryBills,
		Description: "Electric bill",
		Date:        "2024-03-10",
	}

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{
			name:    "no filters",
			filters: Filters{},
			want:    true,
		},
		{
			name:    "All sentinel category",
			filters: Filters{Category: FilterAll},
			want:    true,
		},
		{
			name:    "matching category",
			filters: Filters{Category: "Bills"},
			want:    true,
		},
		{
			name:    "non-matching category",
			filters: Filters{Category: "Food"},
			want:    false,
		},
		{
			name:    "case-insensitive search",
			filters: Filters{Search: "ELECTRIC"},
			want:    true,
		},
		{
			name:    "search miss",
			filters: Filters{Search: "water"},
			want:    false,
		},
		{
			name:    "inside date range",
			filters: Filters{DateFrom: "2024-03-01", DateTo: "2024-03-31"},
			want:    true,
		},
		{
			name:    "before range",
			filters: Filters{DateFrom: "2024-04-01"},
			want:    false,
		},
		{
			name:    "after range",
			filters: Filters{DateTo: "2024-02-28"},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Match(expense); got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil {
			t.Errorf("ParseCategory(%q) unexpected error: %v", c, err)
		}
		if got != c {
			t.Errorf("ParseCategory(%q) = %q", c, got)
		}
	}

	if _, err := ParseCategory("Groceries"); err == nil {
		t.Error("ParseCategory accepted an unknown category")
	}
}

func TestExpense_MonthKey(t *testing.T) {
	e := Expense{Date: "2024-03-10"}
	if got := e.MonthKey(); got != "2024-03" {
		t.Errorf("MonthKey() = %q, want 2024-03", got)
	}
}

func TestExpense_GenerateID_Deterministic(t *testing.T) {
	a := Expense{Date: "2024-01-05", Amount: 12.5, Category: CategoryFood, Description: "Lunch"}
	b := a
	if a.GenerateID() != b.GenerateID() {
		t.Error("identical expenses produced different IDs")
	}
	b.Amount = 13
	if a.GenerateID() == b.GenerateID() {
		t.Error("different amounts produced the same ID")
	}
}
