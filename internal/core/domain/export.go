package domain

import (
	"fmt"
	"strings"
	"time"
)

// ExportColumn selects one lead field for flat-row export.
type ExportColumn struct {
	// Header is the column label written in the header row.
	Header string

	// Field is the lead field the column reads.
	Field Field
}

// DefaultExportColumns is the projection used when none is configured.
func DefaultExportColumns() []ExportColumn {
	return []ExportColumn{
		{Header: "Name", Field: FieldName},
		{Header: "Phone", Field: FieldPhone},
	}
}

// AllExportColumns returns a column for every canonical field.
func AllExportColumns() []ExportColumn {
	return []ExportColumn{
		{Header: "Name", Field: FieldName},
		{Header: "Address", Field: FieldAddress},
		{Header: "Rating", Field: FieldRating},
		{Header: "Review Count", Field: FieldReviews},
		{Header: "Phone", Field: FieldPhone},
		{Header: "Website", Field: FieldWebsite},
	}
}

// ParseExportColumns resolves field names to export columns.
// Canonical fields use their display header; others use the name verbatim.
// An empty list yields the default projection.
func ParseExportColumns(names []string) ([]ExportColumn, error) {
	if len(names) == 0 {
		return DefaultExportColumns(), nil
	}

	headers := make(map[Field]string)
	for _, c := range AllExportColumns() {
		headers[c.Field] = c.Header
	}

	cols := make([]ExportColumn, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			return nil, fmt.Errorf("%w: empty export column", ErrInvalidInput)
		}
		f := Field(name)
		header, ok := headers[f]
		if !ok {
			header = name
		}
		cols = append(cols, ExportColumn{Header: header, Field: f})
	}
	return cols, nil
}

// ExportFileName returns the dated file name for a CSV download.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("map_leads_%s.csv", now.UTC().Format("2006-01-02"))
}
