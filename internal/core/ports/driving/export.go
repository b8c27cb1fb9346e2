package driving

import (
	"context"
	"time"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// ExportService turns session leads into CSV.
type ExportService interface {
	// Columns returns the export projection.
	Columns() []domain.ExportColumn

	// Encode returns the CSV text for the current leads.
	// Returns an empty string when there are none.
	Encode(ctx context.Context) (string, error)

	// WriteFile writes the CSV into dir using the dated file name and
	// returns the full path.
	WriteFile(ctx context.Context, dir string, now time.Time) (string, error)

	// WriteCSV writes already encoded CSV text into dir using the dated
	// file name and returns the full path.
	WriteCSV(dir string, now time.Time, csv string) (string, error)

	// CopyToClipboard places the CSV on the system clipboard.
	CopyToClipboard(ctx context.Context) error
}
