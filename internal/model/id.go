package model

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// NewID builds a compact, time-prefixed identifier for new records: base36
// epoch millis plus a short random suffix.
func NewID(now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// Timestamp alone is still unique enough for a single-user ledger.
		return strconv.FormatInt(now.UnixNano(), 36)
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + hex.EncodeToString(suffix)
}
