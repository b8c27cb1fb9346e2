package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// Parser extracts leads from the Markdown table in a model response.
// It never fails: text without a table yields an empty result and malformed
// rows are skipped.
type Parser struct {
	newID func() string
}

// NewParser creates a parser that assigns random UUIDs to leads.
func NewParser() *Parser {
	return &Parser{newID: uuid.NewString}
}

// NewParserWithIDs creates a parser with a custom ID generator.
func NewParserWithIDs(newID func() string) *Parser {
	return &Parser{newID: newID}
}

// ParseLeadTable parses text with the default parser.
func ParseLeadTable(text string) domain.ParsedTable {
	return NewParser().Parse(text)
}

// Parse converts response text into a parsed table.
func (p *Parser) Parse(text string) domain.ParsedTable {
	lines := nonBlankLines(text)

	headerIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "|") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return domain.ParsedTable{}
	}

	columns := headerColumns(lines[headerIdx])

	start := headerIdx + 1
	if start < len(lines) && strings.Contains(lines[start], "---") {
		start++
	}

	leads := make([]domain.Lead, 0, len(lines)-start)
	for _, line := range lines[start:] {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}

		cells := rowCells(line)
		if len(cells) == 0 {
			continue
		}

		lead := domain.NewLead(p.newID())
		for i, cell := range cells {
			if i >= len(columns) {
				break
			}
			lead.Set(columns[i].Field, cell)
		}
		if len(lead.Fields) == 0 {
			continue
		}
		leads = append(leads, lead)
	}

	return domain.ParsedTable{Columns: columns, Leads: leads}
}

func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// headerColumns maps every non-empty header cell, in order.
func headerColumns(line string) []domain.ColumnMapping {
	parts := strings.Split(line, "|")
	columns := make([]domain.ColumnMapping, 0, len(parts))
	for _, part := range parts {
		label := strings.TrimSpace(part)
		if label == "" {
			continue
		}
		columns = append(columns, domain.MapColumn(len(columns), label))
	}
	return columns
}

// rowCells drops the fragments before the first and after the last pipe.
func rowCells(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}
	parts = parts[1 : len(parts)-1]
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}
