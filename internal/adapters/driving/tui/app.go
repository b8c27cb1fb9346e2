package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/keymap"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/messages"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/styles"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/views/menu"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/views/search"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/views/settings"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// workspace is the search session owned by this app.
	workspace driving.Workspace

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	searchView   *search.View
	settingsView *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// It opens a workspace that stays alive until Close.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrInvalidPorts)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	ws, err := ports.Workspaces.Open(context.Background())
	if err != nil {
		return nil, fmt.Errorf("creating app: open workspace: %w", err)
	}
	logger.Debug("TUI workspace %s opened", ws.ID())

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	app := &App{
		ports:        ports,
		workspace:    ws,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		searchView:   search.NewView(s, km, ws),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}

	if ports.Settings != nil {
		if current, err := ports.Settings.Get(); err == nil {
			app.applySettings(current)
			app.searchView.SetNearMe(current.Location.Enabled)
		} else {
			logger.Warn("Failed to load settings: %v", err)
		}
	}

	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Close discards the app's workspace.
func (a *App) Close() error {
	if a.workspace == nil {
		return nil
	}
	id := a.workspace.ID()
	a.workspace = nil
	return a.ports.Workspaces.Close(id)
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("mapscraper - Map Lead Scraper"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			return a, a.searchView.Init()
		case messages.ViewSettings:
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	// Lead results always belong to the search view, even when it is hidden.
	case messages.LeadsLoaded, messages.LeadsCleared, messages.ExportCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.SettingsLoaded:
		if msg.Err == nil {
			a.applySettings(msg.Settings)
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsSaved, messages.SettingsValidated:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't handle other messages
	}

	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global quit with ctrl+c
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// q and ? are global unless a text field is taking input.
	if !a.capturingText() {
		switch {
		case msg.String() == "q" && a.currentView != messages.ViewMenu:
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help) && a.currentView != messages.ViewHelp:
			a.currentView = messages.ViewHelp
			return a, nil
		}
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return a, cmd
}

func (a *App) capturingText() bool {
	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.InputFocused()
	case messages.ViewSettings:
		return a.settingsView.Capturing()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return false
}

func (a *App) applySettings(s *domain.AppSettings) {
	if s == nil {
		return
	}
	a.searchView.SetExportDir(s.Export.Dir)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ?           Help
  q, ctrl+c   Quit

Search form:
  (type)      Enter search query
  tab         Cycle category
  ctrl+l      Toggle "near me"
  enter       Search
  esc         Back to results or menu

Results:
  j/k, ↑/↓    Navigate leads
  m           Load more results
  e           Export CSV file
  y           Copy CSV to clipboard
  x           Clear results
  r           Show raw response
  n, /        New search

[esc] back to menu`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// WorkspaceID returns the ID of the app's workspace, or "" after Close.
func (a *App) WorkspaceID() string {
	if a.workspace == nil {
		return ""
	}
	return a.workspace.ID()
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
