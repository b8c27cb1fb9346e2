package cli

import (
	"errors"
	"fmt"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

var (
	errNoWorkspaces = errors.New("search service not configured")
	errNoSettings   = errors.New("settings service not configured")
)

// withHint appends a next step to errors the user can fix themselves.
func withHint(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotConfigured):
		return fmt.Errorf("%w\nRun 'mapscraper settings set-key' or 'mapscraper settings wizard' to configure", err)
	case errors.Is(err, domain.ErrUnsupportedType):
		return fmt.Errorf("%w\nRun 'mapscraper settings show' to review the configuration", err)
	case errors.Is(err, domain.ErrRetrievalFailed):
		return fmt.Errorf("%w\nCheck your network connection and API quota, then try again", err)
	default:
		return err
	}
}
