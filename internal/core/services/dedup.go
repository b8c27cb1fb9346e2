package services

import (
	"strings"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

// DedupReport is the outcome of filtering an incoming batch.
type DedupReport struct {
	// Kept are the incoming leads whose names are new, in incoming order.
	Kept []domain.Lead

	// Dropped are the incoming leads that matched an existing name.
	Dropped []domain.Lead
}

// FilterNew returns the incoming leads whose name does not match, ignoring
// case, any existing lead's name. Duplicates within incoming are all kept.
func FilterNew(existing, incoming []domain.Lead) []domain.Lead {
	return Dedup(existing, incoming).Kept
}

// Dedup partitions incoming leads into new and already-known ones.
// Names are compared lower-cased and untrimmed.
func Dedup(existing, incoming []domain.Lead) DedupReport {
	seen := make(map[string]struct{}, len(existing))
	for i := range existing {
		seen[strings.ToLower(existing[i].Name())] = struct{}{}
	}

	report := DedupReport{Kept: make([]domain.Lead, 0, len(incoming))}
	for _, lead := range incoming {
		if _, ok := seen[strings.ToLower(lead.Name())]; ok {
			report.Dropped = append(report.Dropped, lead)
			continue
		}
		report.Kept = append(report.Kept, lead)
	}
	return report
}
