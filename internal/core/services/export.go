package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

var (
	// ErrNothingToExport is returned when a file or clipboard export has no leads.
	ErrNothingToExport = errors.New("no leads to export")

	// ErrClipboardUnavailable is returned when no clipboard is wired.
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// EncodeCSV renders leads as CSV text.
//
// The header row is the column labels joined by commas. Each value is wrapped
// in double quotes with embedded quotes doubled. Rows are joined with "\n"
// and there is no trailing newline. No leads yields an empty string.
func EncodeCSV(leads []domain.Lead, columns []domain.ExportColumn) string {
	if len(leads) == 0 {
		return ""
	}
	if len(columns) == 0 {
		columns = domain.DefaultExportColumns()
	}

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}

	rows := make([]string, 0, len(leads)+1)
	rows = append(rows, strings.Join(headers, ","))

	values := make([]string, len(columns))
	for i := range leads {
		for j, c := range columns {
			values[j] = quoteCSV(leads[i].Get(c.Field))
		}
		rows = append(rows, strings.Join(values, ","))
	}
	return strings.Join(rows, "\n")
}

func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// ExportService exports the leads of a search session.
type ExportService struct {
	session   driving.LeadSearchService
	columns   []domain.ExportColumn
	clipboard driven.Clipboard
}

// NewExportService creates an export service.
// The clipboard is optional; nil columns use the default projection.
func NewExportService(
	session driving.LeadSearchService,
	columns []domain.ExportColumn,
	clipboard driven.Clipboard,
) *ExportService {
	if len(columns) == 0 {
		columns = domain.DefaultExportColumns()
	}
	return &ExportService{
		session:   session,
		columns:   columns,
		clipboard: clipboard,
	}
}

// Columns returns the export projection.
func (s *ExportService) Columns() []domain.ExportColumn {
	return s.columns
}

// Encode returns the CSV text for the current leads.
func (s *ExportService) Encode(ctx context.Context) (string, error) {
	leads, err := s.session.Leads(ctx)
	if err != nil {
		return "", fmt.Errorf("read leads: %w", err)
	}
	return EncodeCSV(leads, s.columns), nil
}

// WriteFile writes the CSV to dir/map_leads_<date>.csv and returns the path.
func (s *ExportService) WriteFile(ctx context.Context, dir string, now time.Time) (string, error) {
	csv, err := s.Encode(ctx)
	if err != nil {
		return "", err
	}
	return s.WriteCSV(dir, now, csv)
}

// WriteCSV writes csv to dir/map_leads_<date>.csv and returns the path.
func (s *ExportService) WriteCSV(dir string, now time.Time, csv string) (string, error) {
	if csv == "" {
		return "", ErrNothingToExport
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, domain.ExportFileName(now))
	//nolint:gosec // G306: exported leads are user data meant to be shared.
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	logger.Info("Exported leads to %s", path)
	return path, nil
}

// CopyToClipboard places the CSV on the system clipboard.
func (s *ExportService) CopyToClipboard(ctx context.Context) error {
	if s.clipboard == nil {
		return ErrClipboardUnavailable
	}
	csv, err := s.Encode(ctx)
	if err != nil {
		return err
	}
	if csv == "" {
		return ErrNothingToExport
	}
	if err := s.clipboard.WriteAll(csv); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
