// Package model defines the core data types shared across the application.
package model

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxAmount is the largest amount a single expense may carry.
const MaxAmount = 999999.99

// MaxDescriptionLength bounds the trimmed description.
const MaxDescriptionLength = 200

// ErrValidation wraps all expense validation failures.
var ErrValidation = errors.New("invalid expense")

// Expense represents a single logged expense. Records are treated as
// immutable once exported; the export engine always operates on snapshots.
type Expense struct {
	ID          string
	Amount      float64
	Category    Category
	Description string
	Date        string // calendar date, YYYY-MM-DD
	CreatedAt   time.Time
}

// MonthKey returns the YYYY-MM prefix of the expense date.
func (e Expense) MonthKey() string {
	if len(e.Date) < 7 {
		return e.Date
	}
	return e.Date[:7]
}

// Validate checks the entry-time invariants. The export engine trusts its
// input and never re-validates individual records.
func (e Expense) Validate(now time.Time) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %.2f", ErrValidation, e.Amount)
	}
	if e.Amount > MaxAmount {
		return fmt.Errorf("%w: amount %.2f exceeds maximum %.2f", ErrValidation, e.Amount, MaxAmount)
	}
	if cents := e.Amount * 100; math.Abs(cents-math.Round(cents)) > 1e-9 {
		return fmt.Errorf("%w: amount %v has more than two decimal places", ErrValidation, e.Amount)
	}
	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, MaxDescriptionLength)
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	date, err := time.Parse("2006-01-02", e.Date)
	if err != nil {
		return fmt.Errorf("%w: invalid date %q", ErrValidation, e.Date)
	}
	if date.After(now) {
		return fmt.Errorf("%w: date %s is in the future", ErrValidation, e.Date)
	}
	return nil
}

// GenerateID derives a stable identifier for duplicate detection across
// imports of the same statement.
func (e Expense) GenerateID() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s", e.Date, e.Amount, e.Category, e.Description)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash[:8])
}

// FilterAll is the sentinel category value meaning "no category filter" in
// the list view. Note the asymmetry with export filtering, where an empty
// category set means unfiltered.
const FilterAll = "All"

// Filters narrows the expense list view.
type Filters struct {
	Search   string
	Category string // a Category name or FilterAll
	DateFrom string
	DateTo   string
}

// Match reports whether an expense passes the list-view filter.
func (f Filters) Match(e Expense) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && f.Category != FilterAll && string(e.Category) != f.Category {
		return false
	}
	if f.DateFrom != "" && e.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && e.Date > f.DateTo {
		return false
	}
	return true
}

// CategoryTotal is a derived per-category rollup. Recomputed on every read,
// never persisted.
type CategoryTotal struct {
	Category   Category
	Total      float64
	Count      int
	Percentage float64
}

// MonthlyTotal is a derived per-month rollup.
type MonthlyTotal struct {
	Month string // "YYYY-MM"
	Label string // "Jan 2024"
	Total float64
}
