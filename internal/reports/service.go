package reports

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"esg-dashboard/ghg-backend/internal/ghg"
	"esg-dashboard/ghg-backend/internal/reports/export"
	"esg-dashboard/ghg-backend/pkg/storage"
)

// SnapshotProvider supplies the session state a report is built from.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, userID string) ghg.Snapshot
}

// Service renders GHG assessment reports and optionally archives them.
type Service struct {
	snapshots  SnapshotProvider
	logger     *zap.Logger
	archive    storage.ObjectStore
	presignTTL time.Duration
	now        func() time.Time

	excelOptions export.ExcelOptions
	csvOptions   export.CSVOptions
}

// Option configures a Service.
type Option func(*Service)

// WithArchive stores generated reports in store and hands out presigned
// links valid for ttl.
func WithArchive(store storage.ObjectStore, ttl time.Duration) Option {
	return func(s *Service) {
		s.archive = store
		if ttl > 0 {
			s.presignTTL = ttl
		}
	}
}

// WithClock overrides the generation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new reports service
func NewService(snapshots SnapshotProvider, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		snapshots:    snapshots,
		logger:       logger,
		presignTTL:   time.Hour,
		now:          time.Now,
		excelOptions: export.DefaultExcelOptions(),
		csvOptions:   export.DefaultCSVOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ArchiveEnabled reports whether an object store is configured.
func (s *Service) ArchiveEnabled() bool {
	return s.archive != nil
}

// Export renders the user's current session in format.
func (s *Service) Export(ctx context.Context, userID string, format ExportFormat) (*File, error) {
	snap := s.snapshots.Snapshot(ctx, userID)
	generatedAt := s.now().UTC()

	file, err := s.Render(snap, format, generatedAt)
	if err != nil {
		s.logger.Error("Failed to export report",
			zap.String("user_id", userID),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Report exported",
		zap.String("user_id", userID),
		zap.String("format", string(format)),
		zap.String("file", file.Name),
		zap.Int("entries", len(snap.Entries)),
		zap.Int("bytes", len(file.Data)))
	return file, nil
}

// Render builds the report for snap without touching any state.
func (s *Service) Render(snap ghg.Snapshot, format ExportFormat, generatedAt time.Time) (*File, error) {
	sheets := BuildSheets(snap, generatedAt)

	var (
		buf bytes.Buffer
		err error
	)
	switch format {
	case ExportFormatExcel:
		err = s.renderExcel(&buf, sheets)
	case ExportFormatCSV:
		err = export.WriteCSVBundle(&buf, sheets, s.csvOptions, generatedAt)
	case ExportFormatPDF:
		err = renderPDF(&buf, sheets, snap.Questionnaire.OrgName, generatedAt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, &ExportError{Format: format, Err: err}
	}

	return &File{
		Name:        FileName(snap.Questionnaire.OrgName, generatedAt, format),
		Format:      format,
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
		GeneratedAt: generatedAt,
	}, nil
}

func (s *Service) renderExcel(buf *bytes.Buffer, sheets []export.Sheet) error {
	exporter, err := export.NewMultiSheetExporter(s.excelOptions)
	if err != nil {
		return err
	}
	defer exporter.Close()

	for _, sheet := range sheets {
		if err := exporter.AddSheet(sheet); err != nil {
			return err
		}
	}
	return exporter.WriteTo(buf)
}

func renderPDF(buf *bytes.Buffer, sheets []export.Sheet, orgName string, generatedAt time.Time) error {
	options := export.DefaultPDFOptions()
	options.Title = "GHG Emissions Assessment"
	options.Subtitle = orgName
	options.Author = orgName

	g := export.NewPDFGenerator(options)
	if err := g.Generate(sheets, generatedAt); err != nil {
		return err
	}
	return g.WriteTo(buf)
}

// Archive uploads file under the user's prefix and returns a presigned
// download URL.
func (s *Service) Archive(ctx context.Context, userID string, file *File) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}

	key := path.Join(archivePrefix(userID), file.Name)
	if err := s.archive.Upload(ctx, key, bytes.NewReader(file.Data), file.ContentType); err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}

	url, err := s.archive.GetPresignedURL(ctx, key, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign archived report: %w", err)
	}

	s.logger.Info("Report archived",
		zap.String("user_id", userID),
		zap.String("key", key))
	return url, nil
}

// FileName returns GHG_Assessment_<org>_<yyyy-mm-dd><ext> with every
// non-alphanumeric character of the organisation name replaced by '_'.
func FileName(orgName string, generatedAt time.Time, format ExportFormat) string {
	return fmt.Sprintf("GHG_Assessment_%s_%s%s",
		sanitize(orgName), generatedAt.UTC().Format("2006-01-02"), format.Extension())
}

// archivePrefix maps a user identity to a single key segment. Distinct
// identities never share a prefix, and dot segments cannot climb out of it.
func archivePrefix(userID string) string {
	switch userID {
	case ".", "..":
		return strings.ReplaceAll(userID, ".", "%2E")
	}
	return url.PathEscape(userID)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, s)
}
