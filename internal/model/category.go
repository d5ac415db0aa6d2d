package model

import "fmt"

// Category represents a valid expense category. The set is closed: every
// expense belongs to exactly one of the categories below.
type Category string

const (
	// CategoryFood covers groceries, restaurants, and coffee.
	CategoryFood Category = "Food"
	// CategoryTransportation covers fuel, transit, and ride shares.
	CategoryTransportation Category = "Transportation"
	// CategoryEntertainment covers movies, games, and subscriptions.
	CategoryEntertainment Category = "Entertainment"
	// CategoryShopping covers retail purchases.
	CategoryShopping Category = "Shopping"
	// CategoryBills covers rent, utilities, and recurring obligations.
	CategoryBills Category = "Bills"
	// CategoryOther is the catch-all for everything else.
	CategoryOther Category = "Other"
)

// Categories returns every category in canonical order. The order doubles as
// the deterministic tiebreak when rankings have equal totals.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransportation,
		CategoryEntertainment,
		CategoryShopping,
		CategoryBills,
		CategoryOther,
	}
}

// ParseCategory validates a category name.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, name)
}

// Rank returns the position of a category in the canonical ordering.
// Unknown categories sort last.
func (c Category) Rank() int {
	for i, known := range Categories() {
		if c == known {
			return i
		}
	}
	return len(Categories())
}

// CategoryColor returns the hex color used when rendering a category.
func CategoryColor(c Category) string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryOther]
}

// CategoryIcon returns the icon used when rendering a category.
func CategoryIcon(c Category) string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOther]
}

var categoryColors = map[Category]string{
	CategoryFood:           "#f97316",
	CategoryTransportation: "#3b82f6",
	CategoryEntertainment:  "#a855f7",
	CategoryShopping:       "#ec4899",
	CategoryBills:          "#eab308",
	CategoryOther:          "#6b7280",
}

var categoryIcons = map[Category]string{
	CategoryFood:           "🍽️",
	CategoryTransportation: "🚗",
	CategoryEntertainment:  "🎬",
	CategoryShopping:       "🛍️",
	CategoryBills:          "📄",
	CategoryOther:          "📌",
}
