// Package search provides the lead search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/components/input"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/components/list"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/components/status"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/keymap"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/messages"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui/styles"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
)

// View is the lead search view: query form, lead table and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.LeadList
	statusbar *status.Bar

	workspace driving.Workspace
	exportDir string
	ctx       context.Context
	now       func() time.Time

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing the query, false = navigating results
	busy       bool
	showRaw    bool
	params     *domain.SearchParameters
	raw        string
}

// NewView creates a new search view bound to one workspace.
func NewView(s *styles.Styles, km *keymap.KeyMap, workspace driving.Workspace) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewLeadList(s),
		statusbar:  status.NewBar(s, km),
		workspace:  workspace,
		exportDir:  ".",
		ctx:        context.Background(),
		now:        time.Now,
		width:      80,
		height:     24,
		focusInput: true,
	}
	v.statusbar.SetState(status.StateInput)
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetExportDir sets the directory CSV files are written to.
func (v *View) SetExportDir(dir string) {
	if dir == "" {
		dir = "."
	}
	v.exportDir = dir
}

// SetNearMe presets the "near me" toggle.
func (v *View) SetNearMe(on bool) {
	v.input.SetNearMe(on)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.LeadsLoaded:
		v.handleLeadsLoaded(msg)
		return v, nil

	case messages.LeadsCleared:
		v.handleLeadsCleared(msg)
		return v, nil

	case messages.ExportCompleted:
		v.handleExportCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.busy = false
		v.setError(msg.Err)
		return v, nil
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		if v.list.IsEmpty() {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.focusResults()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Search):
		req := v.input.Request()
		if strings.TrimSpace(req.Query) == "" {
			v.statusbar.Notify(status.StateWarning, "Enter a search query")
			return v, nil
		}
		v.busy = true
		v.showRaw = false
		v.err = nil
		v.statusbar.SetState(status.StateSearching)
		return v, v.performSearch(req)

	case keymap.Matches(keyStr, v.keymap.Category):
		v.input.CycleCategory()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Location):
		v.input.ToggleNearMe()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(keyStr, v.keymap.NewSearch):
		v.focusQuery()
		return v, nil

	case keymap.Matches(keyStr, v.keymap.More):
		if v.busy {
			return v, nil
		}
		if v.params == nil {
			v.statusbar.Notify(status.StateWarning, "Start a search first")
			return v, nil
		}
		v.busy = true
		v.statusbar.SetState(status.StateLoading)
		return v, v.loadMore()

	case keymap.Matches(keyStr, v.keymap.Clear):
		return v, v.clear()

	case keymap.Matches(keyStr, v.keymap.Export):
		if v.list.IsEmpty() {
			v.statusbar.Notify(status.StateWarning, "Nothing to export")
			return v, nil
		}
		return v, v.exportFile()

	case keymap.Matches(keyStr, v.keymap.Copy):
		if v.list.IsEmpty() {
			v.statusbar.Notify(status.StateWarning, "Nothing to copy")
			return v, nil
		}
		return v, v.copyCSV()

	case keyStr == "r":
		v.showRaw = !v.showRaw
		return v, nil
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

func (v *View) focusQuery() {
	v.focusInput = true
	v.input.Focus()
	v.statusbar.SetState(status.StateInput)
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateResults)
}

// performSearch starts a new session and loads its first batch.
func (v *View) performSearch(req domain.SearchRequest) tea.Cmd {
	ws, ctx := v.workspace, v.ctx
	return func() tea.Msg {
		if ws == nil {
			return messages.ErrorOccurred{Err: ErrNoWorkspace}
		}
		params, err := ws.Start(ctx, req)
		leads, lerr := ws.Leads(ctx)
		if err == nil && lerr != nil {
			err = lerr
		}
		return messages.LeadsLoaded{
			Params: params,
			Leads:  leads,
			Added:  len(leads),
			Raw:    ws.RawResponse(),
			Err:    err,
		}
	}
}

// loadMore fetches another batch for the active session.
func (v *View) loadMore() tea.Cmd {
	ws, ctx := v.workspace, v.ctx
	return func() tea.Msg {
		if ws == nil {
			return messages.ErrorOccurred{Err: ErrNoWorkspace}
		}
		added, err := ws.LoadMore(ctx)
		leads, lerr := ws.Leads(ctx)
		if err == nil && lerr != nil {
			err = lerr
		}
		params, _ := ws.Parameters()
		return messages.LeadsLoaded{
			Params: params,
			Leads:  leads,
			Added:  added,
			Raw:    ws.RawResponse(),
			More:   true,
			Err:    err,
		}
	}
}

func (v *View) clear() tea.Cmd {
	ws, ctx := v.workspace, v.ctx
	return func() tea.Msg {
		if ws == nil {
			return messages.ErrorOccurred{Err: ErrNoWorkspace}
		}
		return messages.LeadsCleared{Err: ws.Clear(ctx)}
	}
}

func (v *View) exportFile() tea.Cmd {
	ws, ctx, dir, now := v.workspace, v.ctx, v.exportDir, v.now()
	return func() tea.Msg {
		if ws == nil {
			return messages.ErrorOccurred{Err: ErrNoWorkspace}
		}
		path, err := ws.WriteFile(ctx, dir, now)
		return messages.ExportCompleted{Path: path, Err: err}
	}
}

func (v *View) copyCSV() tea.Cmd {
	ws, ctx := v.workspace, v.ctx
	return func() tea.Msg {
		if ws == nil {
			return messages.ErrorOccurred{Err: ErrNoWorkspace}
		}
		return messages.ExportCompleted{Clipboard: true, Err: ws.CopyToClipboard(ctx)}
	}
}

func (v *View) handleLeadsLoaded(msg messages.LeadsLoaded) {
	// A newer request owns the session; its own message will follow.
	if errors.Is(msg.Err, domain.ErrStaleResponse) {
		return
	}
	v.busy = false

	if msg.Err != nil && !domain.IsSoft(msg.Err) {
		if !msg.More {
			v.params = nil
			v.list.SetLeads(nil)
			v.statusbar.SetResultCount(0)
		}
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.raw = msg.Raw
	if msg.Params.Query != "" {
		params := msg.Params
		v.params = &params
	}
	v.list.SetLeads(msg.Leads)
	v.statusbar.SetResultCount(len(msg.Leads))
	v.focusResults()

	switch {
	case errors.Is(msg.Err, domain.ErrEmptyResult):
		v.showRaw = true
		v.statusbar.Notify(status.StateWarning, "No results found")
	case errors.Is(msg.Err, domain.ErrNoNewResults):
		v.statusbar.Notify(status.StateWarning, "No additional unique results were found")
	case msg.More:
		v.statusbar.Notify(status.StateSuccess, fmt.Sprintf("Added %d new leads (%d total)", msg.Added, len(msg.Leads)))
	}
}

func (v *View) handleLeadsCleared(msg messages.LeadsCleared) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	v.busy = false
	v.err = nil
	v.params = nil
	v.raw = ""
	v.showRaw = false
	v.list.SetLeads(nil)
	v.statusbar.Clear()
	v.input.Reset()
	v.focusQuery()
}

func (v *View) handleExportCompleted(msg messages.ExportCompleted) {
	switch {
	case msg.Err != nil:
		v.setError(msg.Err)
	case msg.Clipboard:
		v.statusbar.Notify(status.StateSuccess, "Copied CSV to clipboard")
	default:
		v.statusbar.Notify(status.StateSuccess, "Saved "+msg.Path)
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.Notify(status.StateError, err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Map Lead Scraper"), "")
	sections = append(sections, v.input.View(), "")

	if v.params != nil {
		sections = append(sections, v.styles.Muted.Render(describeParams(*v.params)), "")
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	switch {
	case v.showRaw && v.raw != "":
		sections = append(sections,
			v.styles.Subtitle.Render("Raw response"),
			v.styles.Muted.Render(v.raw))
	case v.list.IsEmpty() && v.params == nil:
		sections = append(sections, v.renderExamples())
	default:
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderExamples() string {
	lines := []string{v.styles.Subtitle.Render("Try one of these")}
	for _, ex := range domain.ExampleSearches() {
		lines = append(lines, v.styles.Normal.Render("  "+ex.Query)+
			v.styles.Muted.Render("  ("+ex.Category.String()+")"))
	}
	return strings.Join(lines, "\n")
}

func describeParams(p domain.SearchParameters) string {
	s := fmt.Sprintf("%q in %s", p.Query, p.Category)
	if p.Location != nil {
		s += " near " + p.Location.String()
	}
	return s
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-12) // header, form, parameters and status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Category returns the selected category filter.
func (v *View) Category() domain.Category {
	return v.input.Category()
}

// NearMe reports whether "near me" is on.
func (v *View) NearMe() bool {
	return v.input.NearMe()
}

// Leads returns the leads currently shown.
func (v *View) Leads() []domain.Lead {
	return v.list.Leads()
}

// SelectedLead returns the currently selected lead.
func (v *View) SelectedLead() *domain.Lead {
	return v.list.SelectedLead()
}

// Params returns the frozen parameters of the active session, or nil.
func (v *View) Params() *domain.SearchParameters {
	return v.params
}

// Busy reports whether a fetch is pending.
func (v *View) Busy() bool {
	return v.busy
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// ShowingRaw reports whether the raw response is displayed.
func (v *View) ShowingRaw() bool {
	return v.showRaw
}
