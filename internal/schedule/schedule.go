// Package schedule implements recurring backup exports: next-run
// computation, schedule lifecycle, and a cron-driven runner that executes
// due backups.
package schedule

import (
	"fmt"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
)

// runHour is the local hour at which every scheduled backup fires.
const runHour = 2

// NextRun computes when a backup with the given frequency should next fire,
// relative to now: daily -> tomorrow 02:00, weekly -> next Sunday 02:00,
// monthly -> the 1st of next month 02:00.
func NextRun(freq model.Frequency, now time.Time) (time.Time, error) {
	switch freq {
	case model.FrequencyDaily:
		d := now.AddDate(0, 0, 1)
		return time.Date(d.Year(), d.Month(), d.Day(), runHour, 0, 0, 0, now.Location()), nil
	case model.FrequencyWeekly:
		days := 7 - int(now.Weekday())
		d := now.AddDate(0, 0, days)
		return time.Date(d.Year(), d.Month(), d.Day(), runHour, 0, 0, 0, now.Location()), nil
	case model.FrequencyMonthly:
		d := time.Date(now.Year(), now.Month(), 1, runHour, 0, 0, 0, now.Location())
		return d.AddDate(0, 1, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown backup frequency %q", freq)
	}
}

// NewBackup builds an enabled schedule with its first run computed.
func NewBackup(freq model.Frequency, destination string, format model.Format, now time.Time) (model.ScheduledBackup, error) {
	next, err := NextRun(freq, now)
	if err != nil {
		return model.ScheduledBackup{}, err
	}
	return model.ScheduledBackup{
		ID:          fmt.Sprintf("backup-%d", now.UnixMilli()),
		Frequency:   freq,
		Destination: destination,
		Format:      format,
		Enabled:     true,
		NextRun:     next,
		CreatedAt:   now,
	}, nil
}
