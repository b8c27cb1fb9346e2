package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view     ViewType
		expected string
	}{
		{ViewMenu, "menu"},
		{ViewSearch, "search"},
		{ViewHelp, "help"},
		{ViewSettings, "settings"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

func TestLeadsLoaded_SoftErrorKeepsLeads(t *testing.T) {
	lead := domain.NewLead("1")
	lead.Set(domain.FieldName, "Ace Plumbing")

	msg := LeadsLoaded{
		Leads: []domain.Lead{lead},
		More:  true,
		Err:   domain.ErrNoNewResults,
	}

	assert.True(t, domain.IsSoft(msg.Err))
	assert.Len(t, msg.Leads, 1)
	assert.Zero(t, msg.Added)
}
