package model

import "time"

// Format identifies an export output format.
type Format string

const (
	// FormatCSV produces a comma-separated document.
	FormatCSV Format = "csv"
	// FormatJSON produces a pretty-printed JSON document.
	FormatJSON Format = "json"
	// FormatPDF produces a self-contained HTML report meant for
	// print-to-PDF. The file extension is .html, not .pdf; downstream
	// tooling depends on this long-standing quirk.
	FormatPDF Format = "pdf"
)

// ExportStatus tracks the lifecycle of a history entry.
type ExportStatus string

const (
	// StatusCompleted marks a finished export.
	StatusCompleted ExportStatus = "completed"
	// StatusProcessing marks an export still being generated.
	StatusProcessing ExportStatus = "processing"
	// StatusFailed marks an export that did not produce output.
	StatusFailed ExportStatus = "failed"
)

// ExportHistoryEntry records one completed (or failed) export attempt.
type ExportHistoryEntry struct {
	ID           string
	Timestamp    time.Time
	Format       Format
	Destination  string // freeform: "Local Download", "Email: x@y.com", an integration name
	RecordCount  int
	TotalAmount  float64
	Status       ExportStatus
	TemplateName string
	Filename     string
}

// Frequency is how often a scheduled backup runs.
type Frequency string

const (
	// FrequencyDaily runs every day at 02:00.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly runs every Sunday at 02:00.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyMonthly runs on the 1st of each month at 02:00.
	FrequencyMonthly Frequency = "monthly"
)

// ScheduledBackup describes a recurring export.
type ScheduledBackup struct {
	ID          string
	Frequency   Frequency
	Destination string // integration id or "local"
	Format      Format
	Enabled     bool
	NextRun     time.Time
	LastRun     time.Time // zero if never run
	CreatedAt   time.Time
}

// Integration describes an export destination the user can connect.
type Integration struct {
	ID          string
	Name        string
	Description string
	Connected   bool
}

// Integrations returns the known destinations with their default connection
// state. Email requires no setup and is always available.
func Integrations() []Integration {
	return []Integration{
		{ID: "google-sheets", Name: "Google Sheets", Description: "Sync expenses to a spreadsheet automatically"},
		{ID: "dropbox", Name: "Dropbox", Description: "Auto-backup exports to your Dropbox"},
		{ID: "onedrive", Name: "OneDrive", Description: "Save exports directly to OneDrive"},
		{ID: "notion", Name: "Notion", Description: "Create expense databases in Notion"},
		{ID: "email", Name: "Email", Description: "Send exports directly to any email", Connected: true},
	}
}
