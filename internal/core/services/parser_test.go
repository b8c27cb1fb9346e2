package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("lead-%d", n)
	}
}

const fullTable = `| Name | Address | Rating | Review Count | Phone | Website |
|---|---|---|---|---|---|
| Joe's Diner | 1 Main St | 4.5 | 120 | 555-1212 | N/A |`

func TestParse_WellFormedTable(t *testing.T) {
	table := NewParserWithIDs(sequentialIDs()).Parse(fullTable)

	require.Len(t, table.Leads, 1)
	lead := table.Leads[0]
	assert.Equal(t, "lead-1", lead.ID)
	assert.Equal(t, map[domain.Field]string{
		domain.FieldName:    "Joe's Diner",
		domain.FieldAddress: "1 Main St",
		domain.FieldRating:  "4.5",
		domain.FieldReviews: "120",
		domain.FieldPhone:   "555-1212",
		domain.FieldWebsite: "N/A",
	}, lead.Fields)

	require.Len(t, table.Columns, 6)
	for _, c := range table.Columns {
		assert.True(t, c.Canonical, c.Label)
	}
}

func TestParse_NoTable(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"prose", "I could not find any businesses matching that query."},
		{"pipes mid-line", "Name | Phone\nAce | 555"},
		{"blank lines", "\n\n   \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := ParseLeadTable(tt.text)
			assert.True(t, table.Empty())
			assert.Empty(t, table.Columns)
		})
	}
}

func TestParse_FewerCellsThanHeaders(t *testing.T) {
	text := `| Name | Address | Rating | Review Count | Phone | Website |
|---|---|---|---|---|---|
| Ace Plumbing | 9 Elm St |`

	table := ParseLeadTable(text)

	require.Len(t, table.Leads, 1)
	assert.Equal(t, map[domain.Field]string{
		domain.FieldName:    "Ace Plumbing",
		domain.FieldAddress: "9 Elm St",
	}, table.Leads[0].Fields)
}

func TestParse_ExtraCellsIgnored(t *testing.T) {
	text := `| Name | Phone |
|---|---|
| Ace | 555 | surplus | more |`

	table := ParseLeadTable(text)

	require.Len(t, table.Leads, 1)
	assert.Equal(t, map[domain.Field]string{
		domain.FieldName:  "Ace",
		domain.FieldPhone: "555",
	}, table.Leads[0].Fields)
}

func TestParse_DerivedColumns(t *testing.T) {
	text := `| Name | Opening Hours | Price Level |
| --- | --- | --- |
| Cafe | 7am-3pm | $$ |`

	table := ParseLeadTable(text)

	require.Len(t, table.Leads, 1)
	assert.Equal(t, "7am-3pm", table.Leads[0].Get("opening_hours"))
	assert.Equal(t, "$$", table.Leads[0].Get("price_level"))
	assert.False(t, table.Columns[1].Canonical)
}

func TestParse_NoSeparatorRow(t *testing.T) {
	text := "| Name | Phone |\n| A | 1 |\n| B | 2 |"

	table := ParseLeadTable(text)

	assert.Equal(t, []string{"A", "B"}, domain.LeadNames(table.Leads))
}

func TestParse_SurroundingProseAndIndentation(t *testing.T) {
	text := `Here are some results:

   | Name | Phone |
   |------|-------|
   | A | 1 |

Some commentary in between.
   | B | 2 |

Hope this helps!`

	table := ParseLeadTable(text)

	assert.Equal(t, []string{"A", "B"}, domain.LeadNames(table.Leads))
}

func TestParse_EmptyHeaderCellsDropped(t *testing.T) {
	// The empty header cell is dropped, so later columns shift left.
	text := "| Name | | Phone |\n|---|---|---|\n| A | x | 555 |"

	table := ParseLeadTable(text)

	require.Len(t, table.Columns, 2)
	require.Len(t, table.Leads, 1)
	assert.Equal(t, "A", table.Leads[0].Name())
	assert.Equal(t, "x", table.Leads[0].Phone())
}

func TestParse_RowWithoutTrailingPipe(t *testing.T) {
	text := "| Name | Phone |\n|---|---|\n| A | 555"

	table := ParseLeadTable(text)

	require.Len(t, table.Leads, 1)
	assert.Equal(t, "A", table.Leads[0].Name())
	assert.NotContains(t, table.Leads[0].Fields, domain.FieldPhone)
}

func TestParse_RowWithNoCellsSkipped(t *testing.T) {
	text := "| Name | Phone |\n|---|---|\n|\n| A | 1 |"

	table := ParseLeadTable(text)

	assert.Equal(t, []string{"A"}, domain.LeadNames(table.Leads))
}

func TestParse_LaterDuplicateColumnWins(t *testing.T) {
	text := "| Business Name | Contact Name |\n|---|---|\n| Ace | Bob |"

	table := ParseLeadTable(text)

	require.Len(t, table.Leads, 1)
	assert.Equal(t, "Bob", table.Leads[0].Name())
}

func TestParse_UniqueIDs(t *testing.T) {
	text := "| Name |\n|---|\n| A |\n| B |\n| C |"

	table := ParseLeadTable(text)

	require.Len(t, table.Leads, 3)
	seen := make(map[string]bool)
	for _, l := range table.Leads {
		assert.NotEmpty(t, l.ID)
		assert.False(t, seen[l.ID], "duplicate id %s", l.ID)
		seen[l.ID] = true
	}
}

func TestParse_IntraBatchDuplicatesKept(t *testing.T) {
	text := "| Name |\n|---|\n| A |\n| a |"

	table := ParseLeadTable(text)

	assert.Equal(t, []string{"A", "a"}, domain.LeadNames(table.Leads))
}
