// Package static provides a geolocator that returns fixed coordinates.
package static

import (
	"context"
	"fmt"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure Locator implements the interface.
var _ driven.Geolocator = (*Locator)(nil)

// Locator always reports the configured position.
type Locator struct {
	loc domain.GeoLocation
}

// NewLocator creates a locator for the given coordinates.
func NewLocator(latitude, longitude float64) *Locator {
	return &Locator{loc: domain.GeoLocation{Latitude: latitude, Longitude: longitude}}
}

// Locate returns the configured coordinates.
func (l *Locator) Locate(ctx context.Context) (domain.GeoLocation, error) {
	if err := ctx.Err(); err != nil {
		return domain.GeoLocation{}, err
	}
	if !l.loc.IsValid() {
		return domain.GeoLocation{}, fmt.Errorf("%w: coordinates %s out of range", domain.ErrInvalidInput, l.loc)
	}
	return l.loc, nil
}
