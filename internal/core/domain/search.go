package domain

import (
	"fmt"
	"strings"
)

// Category narrows a search to a kind of business.
type Category string

// Available categories.
const (
	// CategoryAll is the sentinel meaning no category filter.
	CategoryAll           Category = "All Categories"
	CategoryRestaurants   Category = "Restaurants"
	CategoryHotels        Category = "Hotels"
	CategoryRetail        Category = "Retail"
	CategoryServices      Category = "Services"
	CategoryHealth        Category = "Health"
	CategoryEntertainment Category = "Entertainment"
	CategoryAutomotive    Category = "Automotive"
	CategoryRealEstate    Category = "Real Estate"
	CategoryEducation     Category = "Education"
	CategoryTechnology    Category = "Technology"
)

// AllCategories returns every category, sentinel first.
func AllCategories() []Category {
	return []Category{
		CategoryAll,
		CategoryRestaurants,
		CategoryHotels,
		CategoryRetail,
		CategoryServices,
		CategoryHealth,
		CategoryEntertainment,
		CategoryAutomotive,
		CategoryRealEstate,
		CategoryEducation,
		CategoryTechnology,
	}
}

// ParseCategory resolves user input to a category.
// Matching is case-insensitive and ignores surrounding whitespace.
// Empty input resolves to CategoryAll.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryAll, nil
	}
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

// IsFilter reports whether the category restricts results.
func (c Category) IsFilter() bool {
	return c != "" && c != CategoryAll
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// Next returns the category after c in AllCategories, wrapping around.
func (c Category) Next() Category {
	all := AllCategories()
	for i, cat := range all {
		if cat == c {
			return all[(i+1)%len(all)]
		}
	}
	return CategoryAll
}

// GeoLocation is a latitude/longitude pair.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsValid reports whether the coordinates are in range.
func (g GeoLocation) IsValid() bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude >= -180 && g.Longitude <= 180
}

// String formats the location for display.
func (g GeoLocation) String() string {
	return fmt.Sprintf("%.5f,%.5f", g.Latitude, g.Longitude)
}

// SearchRequest is what a user asks for when starting a search.
type SearchRequest struct {
	// Query is the free-text search.
	Query string

	// Category is the raw category input; empty means no filter.
	Category string

	// UseLocation asks the session to resolve the caller's location.
	UseLocation bool

	// Location pins explicit coordinates. Takes precedence over UseLocation.
	Location *GeoLocation
}

// SearchParameters are frozen when a session starts and replayed on every
// follow-up fetch.
type SearchParameters struct {
	Query    string       `json:"query"`
	Category Category     `json:"category"`
	Location *GeoLocation `json:"location,omitempty"`
}

// Example is a suggested starter search.
type Example struct {
	Query    string
	Category Category
}

// ExampleSearches returns the starter searches shown on empty screens.
func ExampleSearches() []Example {
	return []Example{
		{Query: "Coworking spaces", Category: CategoryRealEstate},
		{Query: "Sushi bars in Seattle", Category: CategoryRestaurants},
		{Query: "Car repair shops", Category: CategoryAutomotive},
	}
}
