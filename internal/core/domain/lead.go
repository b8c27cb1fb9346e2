package domain

import (
	"strings"
	"unicode"
)

// Field names a single attribute of a lead.
type Field string

// Canonical fields recognised in model output tables.
const (
	FieldName    Field = "name"
	FieldAddress Field = "address"
	FieldRating  Field = "rating"
	FieldReviews Field = "reviews"
	FieldWebsite Field = "website"
	FieldPhone   Field = "phone"
)

// fieldRules maps header substrings to canonical fields.
// Order matters: the first matching rule wins.
var fieldRules = []struct {
	substr string
	field  Field
}{
	{"name", FieldName},
	{"address", FieldAddress},
	{"rating", FieldRating},
	{"review", FieldReviews},
	{"web", FieldWebsite},
	{"phone", FieldPhone},
}

// CanonicalFields returns the canonical fields in display order.
func CanonicalFields() []Field {
	return []Field{FieldName, FieldAddress, FieldRating, FieldReviews, FieldWebsite, FieldPhone}
}

// String returns the string representation.
func (f Field) String() string {
	return string(f)
}

// ColumnMapping describes how one table column maps to a lead field.
// Canonical is false when Field was derived from the header label verbatim.
type ColumnMapping struct {
	// Index is the zero-based column position in the header.
	Index int

	// Label is the trimmed header text.
	Label string

	// Field is the lead field the column populates.
	Field Field

	// Canonical reports whether Field is a canonical field.
	Canonical bool
}

// MapColumn maps a header label to a lead field using case-insensitive
// substring rules. Labels matching no rule produce a derived field:
// lower-cased, with each whitespace character replaced by an underscore.
func MapColumn(index int, label string) ColumnMapping {
	lower := strings.ToLower(label)
	for _, rule := range fieldRules {
		if strings.Contains(lower, rule.substr) {
			return ColumnMapping{Index: index, Label: label, Field: rule.field, Canonical: true}
		}
	}

	derived := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, lower)

	return ColumnMapping{Index: index, Label: label, Field: Field(derived), Canonical: false}
}

// Lead is one discovered business entity.
// Fields holds canonical and derived attributes keyed by field name; a
// derived "id" field is independent of ID.
type Lead struct {
	// ID is a caller-opaque unique identifier assigned at parse time.
	ID string `json:"id"`

	// Fields holds the attribute values.
	Fields map[Field]string `json:"fields"`
}

// NewLead creates a lead with the given identifier and no fields.
func NewLead(id string) Lead {
	return Lead{ID: id, Fields: make(map[Field]string)}
}

// Get returns the value of a field, or empty string when unset.
func (l Lead) Get(f Field) string {
	return l.Fields[f]
}

// Set assigns a field value.
func (l *Lead) Set(f Field, value string) {
	if l.Fields == nil {
		l.Fields = make(map[Field]string)
	}
	l.Fields[f] = value
}

// Name returns the lead name.
func (l Lead) Name() string { return l.Fields[FieldName] }

// Address returns the lead address.
func (l Lead) Address() string { return l.Fields[FieldAddress] }

// Rating returns the lead rating.
func (l Lead) Rating() string { return l.Fields[FieldRating] }

// Reviews returns the review count.
func (l Lead) Reviews() string { return l.Fields[FieldReviews] }

// Website returns the lead website.
func (l Lead) Website() string { return l.Fields[FieldWebsite] }

// Phone returns the lead phone number.
func (l Lead) Phone() string { return l.Fields[FieldPhone] }

// Clone returns a deep copy of the lead.
func (l Lead) Clone() Lead {
	fields := make(map[Field]string, len(l.Fields))
	for k, v := range l.Fields {
		fields[k] = v
	}
	return Lead{ID: l.ID, Fields: fields}
}

// ParsedTable is the result of parsing one model response.
type ParsedTable struct {
	// Columns is the header mapping in left-to-right order.
	Columns []ColumnMapping

	// Leads holds the parsed records in row order.
	Leads []Lead
}

// Empty reports whether no leads were parsed.
func (t ParsedTable) Empty() bool {
	return len(t.Leads) == 0
}

// LeadNames returns the names of the given leads in order.
func LeadNames(leads []Lead) []string {
	names := make([]string, len(leads))
	for i := range leads {
		names[i] = leads[i].Name()
	}
	return names
}
