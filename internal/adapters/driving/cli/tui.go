package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for MapScraper.

Controls:
  Enter    - Search
  Tab      - Next category
  Ctrl+L   - Toggle "near me"
  Esc      - Leave the query box
  m        - Load more results
  x        - Clear results
  e        - Export CSV file
  y        - Copy CSV to clipboard
  ↑/k, ↓/j - Navigate results
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if workspaces == nil {
		return errNoWorkspaces
	}

	stop := startPruner(cmd.Context())
	defer stop()

	app, err := tui.NewApp(&tui.Ports{
		Workspaces: workspaces,
		Settings:   settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	defer app.Close()

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
