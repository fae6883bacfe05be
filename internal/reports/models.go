package reports

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	ExportFormatExcel ExportFormat = "xlsx"
	ExportFormatCSV   ExportFormat = "csv"
	ExportFormatPDF   ExportFormat = "pdf"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrArchiveDisabled is returned when archiving is requested without an
// object store.
var ErrArchiveDisabled = errors.New("report archiving is not configured")

// ParseFormat accepts xlsx, excel, csv and pdf, case-insensitively.
func ParseFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xlsx", "excel":
		return ExportFormatExcel, nil
	case "csv":
		return ExportFormatCSV, nil
	case "pdf":
		return ExportFormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension returns the file extension of the rendered report. CSV
// reports are a zip of one file per sheet.
func (f ExportFormat) Extension() string {
	switch f {
	case ExportFormatCSV:
		return ".zip"
	case ExportFormatPDF:
		return ".pdf"
	default:
		return ".xlsx"
	}
}

// ContentType returns the MIME type of the rendered report.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatCSV:
		return "application/zip"
	case ExportFormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// File is a rendered report.
type File struct {
	Name        string       `json:"name"`
	Format      ExportFormat `json:"format"`
	ContentType string       `json:"content_type"`
	Data        []byte       `json:"-"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// ExportError wraps a rendering failure. Exports read a snapshot and never
// modify session state, so they can always be retried.
type ExportError struct {
	Format ExportFormat
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %s report: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Retryable is always true.
func (e *ExportError) Retryable() bool { return true }
