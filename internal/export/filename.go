package export

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/outlay-cli/outlay/internal/model"
)

// DefaultBaseName is used when the requested filename is empty or reduces to
// nothing after stripping its extension.
const DefaultBaseName = "expenses"

// extensions maps each format to the file extension it produces. "pdf"
// yields .html: the report is an HTML document meant for print-to-PDF.
var extensions = map[model.Format]string{
	model.FormatCSV:  "csv",
	model.FormatJSON: "json",
	model.FormatPDF:  "html",
}

// Extension returns the file extension for a format, or "" if the format is
// unknown.
func Extension(format model.Format) string {
	return extensions[format]
}

// MediaType returns the media type for a format, or "" if unknown.
func MediaType(format model.Format) string {
	switch format {
	case model.FormatCSV:
		return MediaTypeCSV
	case model.FormatJSON:
		return MediaTypeJSON
	case model.FormatPDF:
		return MediaTypeHTML
	default:
		return ""
	}
}

// BuildFilename normalizes a requested filename for a format: any trailing
// extension is stripped, an empty base falls back to DefaultBaseName, and
// the format's own extension is appended.
func BuildFilename(requested string, format model.Format) string {
	base := strings.TrimSuffix(requested, filepath.Ext(requested))
	if base == "" {
		base = DefaultBaseName
	}
	return base + "." + extensions[format]
}

// DefaultFilename returns the dated base name offered to users,
// e.g. "expenses-2024-03-15".
func DefaultFilename(now time.Time) string {
	return DefaultBaseName + "-" + now.Format("2006-01-02")
}
