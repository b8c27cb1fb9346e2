package driven

import (
	"context"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// Geolocator resolves the caller's approximate position.
// Callers treat any error as "no location" and continue without one.
type Geolocator interface {
	// Locate returns the current location.
	Locate(ctx context.Context) (domain.GeoLocation, error)
}
