package export

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// WriteCSVBundle writes one CSV file per sheet into a zip archive. Entry
// times are set to modified so identical input yields identical bytes.
func WriteCSVBundle(w io.Writer, sheets []Sheet, options CSVOptions, modified time.Time) error {
	zw := zip.NewWriter(w)

	for _, sheet := range sheets {
		header := &zip.FileHeader{
			Name:     sheet.FileName(".csv"),
			Method:   zip.Deflate,
			Modified: modified.UTC(),
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to add %s to bundle: %w", header.Name, err)
		}
		if err := NewCSVExporter(fw, options).WriteSheet(sheet); err != nil {
			zw.Close()
			return fmt.Errorf("failed to write %s: %w", header.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish bundle: %w", err)
	}
	return nil
}
