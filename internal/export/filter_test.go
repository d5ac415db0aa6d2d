package export

import (
	"testing"

	"github.com/outlay-cli/outlay/internal/model"
)

func sampleExpenses() []model.Expense {
	return []model.Expense{
		{ID: "1", Date: "2024-01-05", Category: model.CategoryFood, Amount: 12.50, Description: "Lunch"},
		{ID: "2", Date: "2024-02-10", Category: model.CategoryBills, Amount: 100, Description: "Electric, bill"},
		{ID: "3", Date: "2024-03-01", Category: model.CategoryShopping, Amount: 45.99, Description: "Shoes"},
		{ID: "4", Date: "2024-03-15", Category: model.CategoryFood, Amount: 8.25, Description: "Coffee"},
	}
}

func TestFilter_DateBounds(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantIDs []string
	}{
		{
			name:    "unbounded",
			opts:    Options{},
			wantIDs: []string{"1", "2", "3", "4"},
		},
		{
			name:    "from only",
			opts:    Options{DateFrom: "2024-02-10"},
			wantIDs: []string{"2", "3", "4"},
		},
		{
			name:    "to only",
			opts:    Options{DateTo: "2024-02-10"},
			wantIDs: []string{"1", "2"},
		},
		{
			name:    "inclusive bounds",
			opts:    Options{DateFrom: "2024-01-05", DateTo: "2024-03-01"},
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:    "inverted range is empty",
			opts:    Options{DateFrom: "2024-03-01", DateTo: "2024-01-01"},
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(sampleExpenses(), tt.opts)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d expenses, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilter_EmptyCategoriesMeansAll(t *testing.T) {
	expenses := sampleExpenses()

	empty := Filter(expenses, Options{Categories: nil})
	full := Filter(expenses, Options{Categories: model.Categories()})

	if len(empty) != len(expenses) || len(full) != len(expenses) {
		t.Fatalf("empty set kept %d, full enumeration kept %d, want %d both",
			len(empty), len(full), len(expenses))
	}
	for i := range empty {
		if empty[i].ID != full[i].ID {
			t.Errorf("empty and full enumeration disagree at %d: %s vs %s", i, empty[i].ID, full[i].ID)
		}
	}
}

func TestFilter_CategorySubset(t *testing.T) {
	got := Filter(sampleExpenses(), Options{Categories: []model.Category{model.CategoryFood}})
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	for _, e := range got {
		if e.Category != model.CategoryFood {
			t.Errorf("unexpected category %s", e.Category)
		}
	}
}

func TestFilter_CategoriesCombineWithDates(t *testing.T) {
	got := Filter(sampleExpenses(), Options{
		DateFrom:   "2024-02-01",
		Categories: []model.Category{model.CategoryFood, model.CategoryBills},
	})
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "4" {
		t.Errorf("unexpected selection: %+v", got)
	}
}

func TestSortByDateDesc(t *testing.T) {
	sorted := SortByDateDesc(sampleExpenses())
	want := []string{"4", "3", "2", "1"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d].ID = %s, want %s", i, sorted[i].ID, id)
		}
	}

	// Input order survives: the original slice is untouched.
	original := sampleExpenses()
	if original[0].ID != "1" {
		t.Error("SortByDateDesc mutated its input")
	}
}

func TestSortByDateDesc_StableOnEqualDates(t *testing.T) {
	expenses := []model.Expense{
		{ID: "a", Date: "2024-01-05"},
		{ID: "b", Date: "2024-01-05"},
		{ID: "c", Date: "2024-01-05"},
	}
	sorted := SortByDateDesc(expenses)
	for i, id := range []string{"a", "b", "c"} {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d].ID = %s, want %s", i, sorted[i].ID, id)
		}
	}
}
