package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID(now)
		if id == "" {
			t.Fatal("NewID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID() repeated %q with an identical clock", id)
		}
		seen[id] = true
	}

	// Identical clocks share the time prefix.
	prefix := NewID(now)[:8]
	if !strings.HasPrefix(NewID(now), prefix[:6]) {
		t.Errorf("NewID() time prefix not stable for a fixed clock")
	}
}
