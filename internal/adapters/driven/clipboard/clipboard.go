// Package clipboard writes to the system clipboard via atotto/clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
)

// Ensure System implements the interface.
var _ driven.Clipboard = (*System)(nil)

// ErrUnsupported is returned when no clipboard utility is available.
var ErrUnsupported = errors.New("system clipboard unavailable (install xclip, xsel or wl-clipboard)")

// System is the OS clipboard.
type System struct {
	write       func(string) error
	unsupported func() bool
}

// NewSystem returns the OS clipboard.
func NewSystem() *System {
	return &System{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// WriteAll replaces the clipboard contents.
func (s *System) WriteAll(text string) error {
	if s.unsupported() {
		return ErrUnsupported
	}
	if err := s.write(text); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	return nil
}
