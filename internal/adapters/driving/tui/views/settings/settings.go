// Package settings provides the settings view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/messages"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/styles"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
)

// ErrNoSettingsService is returned when the view has no settings service.
var ErrNoSettingsService = errors.New("settings service not available")

const keyLocationEnabled = "location.enabled"

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionProvider
	SectionAPIKey
)

// Overview actions, in display order.
const (
	actionProvider = iota
	actionAPIKey
	actionLocation
	actionValidate
	actionCount
)

// View is the settings view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	err      error
	notice   string

	section     Section
	selected    int
	apiKeyInput textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKeyInput := textinput.New()
	apiKeyInput.Placeholder = "Enter API key"
	apiKeyInput.EchoMode = textinput.EchoPassword
	apiKeyInput.CharLimit = 256

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		apiKeyInput:     apiKeyInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = "Saved"
		v.section = SectionOverview
		return v, v.loadSettings()

	case messages.SettingsValidated:
		if msg.Err != nil {
			v.err = msg.Err
			v.notice = ""
			return v, nil
		}
		v.err = nil
		v.notice = "Provider connection OK"
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "esc" {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.leaveSection()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionProvider:
		return v.handleProviderKeys(msg)
	case SectionAPIKey:
		return v.handleAPIKeyKeys(msg)
	}
	return v, nil
}

func (v *View) leaveSection() {
	v.section = SectionOverview
	v.selected = 0
	v.apiKeyInput.SetValue("")
	v.apiKeyInput.Blur()
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < actionCount-1 {
			v.selected++
		}
	case "enter":
		v.notice = ""
		switch v.selected {
		case actionProvider:
			v.section = SectionProvider
			v.selected = v.providerIndex()
		case actionAPIKey:
			v.section = SectionAPIKey
			return v, v.apiKeyInput.Focus()
		case actionLocation:
			return v, v.toggleLocation()
		case actionValidate:
			return v, v.validate()
		}
	}
	return v, nil
}

func (v *View) handleProviderKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	providers := domain.AllProviders()

	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(providers)-1 {
			v.selected++
		}
	case "enter":
		return v, v.setProvider(providers[v.selected])
	}
	return v, nil
}

func (v *View) handleAPIKeyKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.String() == "enter" {
		key := strings.TrimSpace(v.apiKeyInput.Value())
		if key == "" {
			v.err = fmt.Errorf("%w: API key must not be empty", domain.ErrInvalidInput)
			return v, nil
		}
		v.apiKeyInput.SetValue("")
		v.apiKeyInput.Blur()
		return v, v.setAPIKey(key)
	}

	var cmd tea.Cmd
	v.apiKeyInput, cmd = v.apiKeyInput.Update(msg)
	return v, cmd
}

// Commands that update settings.

func (v *View) setProvider(provider domain.AIProvider) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		// Empty model selects the provider default.
		return messages.SettingsSaved{Err: svc.SetProvider(provider, "")}
	}
}

func (v *View) setAPIKey(key string) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.SetAPIKey(key)}
	}
}

func (v *View) toggleLocation() tea.Cmd {
	svc := v.settingsService
	enabled := v.settings != nil && v.settings.Location.Enabled
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: svc.SetValue(keyLocationEnabled, strconv.FormatBool(!enabled))}
	}
}

func (v *View) validate() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsValidated{Err: ErrNoSettingsService}
		}
		if err := svc.Validate(); err != nil {
			return messages.SettingsValidated{Err: err}
		}
		return messages.SettingsValidated{Err: svc.ValidateRetrievalConfig()}
	}
}

func (v *View) providerIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, p := range domain.AllProviders() {
		if p == v.settings.Retrieval.Provider {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	} else if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionProvider:
		b.WriteString(v.renderProvider())
	case SectionAPIKey:
		b.WriteString(v.renderAPIKey())
	}

	return b.String()
}

func (v *View) renderOverview() string {
	if v.settings == nil {
		return v.styles.Muted.Render("Loading settings...")
	}
	s := v.settings

	apiKey := "not set"
	if s.Retrieval.APIKey != "" {
		apiKey = "configured"
	}
	location := "off"
	if s.Location.Enabled {
		location = "on (" + s.Location.Provider.String() + ")"
	}

	values := []string{
		fmt.Sprintf("%s / %s", s.Retrieval.Provider, s.Retrieval.Model),
		apiKey,
		location,
		"",
	}
	labels := []string{"Provider", "API key", "Near me", "Test connection"}

	var b strings.Builder
	for i, label := range labels {
		line := fmt.Sprintf("%-16s %s", label, values[i])
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Export dir: %s   Storage: %s", s.Export.Dir, s.Storage.Backend)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Change  [Esc] Back"))
	return b.String()
}

func (v *View) renderProvider() string {
	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("Retrieval provider"))
	b.WriteString("\n\n")
	for i, p := range domain.AllProviders() {
		line := fmt.Sprintf("%-8s %s", p, p.Description())
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Enter] Select  [Esc] Cancel"))
	return b.String()
}

func (v *View) renderAPIKey() string {
	provider := domain.AIProviderGemini
	if v.settings != nil {
		provider = v.settings.Retrieval.Provider
	}

	var b strings.Builder
	b.WriteString(v.styles.Subtitle.Render("API key for " + provider.String()))
	b.WriteString("\n\n")
	b.WriteString(v.styles.InputField.Render(v.apiKeyInput.View()))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Selected returns the selection within the active section.
func (v *View) Selected() int {
	return v.selected
}

// Settings returns the loaded settings, or nil.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Notice returns the last success message.
func (v *View) Notice() string {
	return v.notice
}

// Capturing reports whether the view is consuming text input.
func (v *View) Capturing() bool {
	return v.section == SectionAPIKey
}
