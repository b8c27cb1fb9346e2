package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/storage/memory"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/services"
)

const (
	firstBatch = `| Name | Address | Phone |
|---|---|---|
| Joe's Diner | 1 Main St | 555-1212 |
| Ace Plumbing | 9 Elm St | |`

	secondBatch = `| Name | Phone |
|---|---|
| Blue Bakery | 555-9999 |`
)

// mockRetriever returns scripted responses in order, repeating the last.
type mockRetriever struct {
	mu        sync.Mutex
	responses []string
	err       error
	requests  []domain.RetrievalRequest
}

func (m *mockRetriever) Retrieve(_ context.Context, req domain.RetrievalRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := len(m.requests)
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	if call >= len(m.responses) {
		return m.responses[len(m.responses)-1], nil
	}
	return m.responses[call], nil
}

func (m *mockRetriever) ModelName() string { return "mock-model" }

func (m *mockRetriever) Ping(_ context.Context) error { return nil }

func (m *mockRetriever) Close() error { return nil }

// mockClipboard records the last copied text.
type mockClipboard struct {
	text string
}

func (m *mockClipboard) WriteAll(text string) error {
	m.text = text
	return nil
}

type testServices struct {
	retriever *mockRetriever
	manager   *services.WorkspaceManager
	settings  *services.SettingsService
	config    *memory.ConfigStore
	clipboard *mockClipboard
}

// setupTestServices wires real services over in-memory stores.
// The returned function restores the previous services.
func setupTestServices(r *mockRetriever) (*testServices, func()) {
	oldWorkspaces, oldSettings, oldPruner := workspaces, settingsService, pruner

	config := memory.NewConfigStore()
	ts := &testServices{
		retriever: r,
		config:    config,
		settings:  services.NewSettingsService(config, nil, nil),
		clipboard: &mockClipboard{},
	}
	ts.manager = services.NewWorkspaceManager(services.WorkspaceConfig{
		Retriever: r,
		Stores:    memory.NewLeadStoreFactory(),
		Clipboard: ts.clipboard,
	})
	SetServices(Services{Workspaces: ts.manager, Settings: ts.settings})

	return ts, func() {
		workspaces, settingsService, pruner = oldWorkspaces, oldSettings, oldPruner
	}
}

// resetFlags restores every flag to its default so commands can run repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}
