package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVExporter exports data to CSV format
type CSVExporter struct {
	writer  *csv.Writer
	options CSVOptions
}

// CSVOptions configures CSV export behavior
type CSVOptions struct {
	Delimiter       rune   `json:"delimiter"`        // Field delimiter (default: comma)
	UseCRLF         bool   `json:"use_crlf"`         // Use \r\n for line terminator
	IncludeHeader   bool   `json:"include_header"`   // Include column headers
	TimestampFormat string `json:"timestamp_format"` // Format for timestamp fields
	NullValue       string `json:"null_value"`       // String to use for null values
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ',',
		UseCRLF:         false,
		IncludeHeader:   true,
		TimestampFormat: time.RFC3339,
		NullValue:       "",
	}
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(w io.Writer, options CSVOptions) *CSVExporter {
	writer := csv.NewWriter(w)
	if options.Delimiter != 0 {
		writer.Comma = options.Delimiter
	}
	writer.UseCRLF = options.UseCRLF

	return &CSVExporter{
		writer:  writer,
		options: options,
	}
}

// WriteHeader writes the CSV header row
func (e *CSVExporter) WriteHeader(columns []string) error {
	if !e.options.IncludeHeader {
		return nil
	}
	if err := e.writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteRow writes a single row of data
func (e *CSVExporter) WriteRow(row []interface{}) error {
	record := make([]string, len(row))
	for i, val := range row {
		record[i] = e.formatValue(val)
	}

	if err := e.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// WriteSheet writes the header and every row of sheet, then flushes.
func (e *CSVExporter) WriteSheet(sheet Sheet) error {
	if err := e.WriteHeader(sheet.Columns); err != nil {
		return err
	}
	for _, row := range sheet.Rows {
		if err := e.WriteRow(row); err != nil {
			return err
		}
	}
	return e.Flush()
}

// Flush writes any buffered data to the underlying writer
func (e *CSVExporter) Flush() error {
	e.writer.Flush()
	return e.writer.Error()
}

// formatValue formats a value for CSV output
func (e *CSVExporter) formatValue(val interface{}) string {
	if val == nil {
		return e.options.NullValue
	}

	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return e.options.NullValue
		}
		return v.Format(e.options.TimestampFormat)
	default:
		return fmt.Sprintf("%v", v)
	}
}
