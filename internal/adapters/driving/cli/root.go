// Package cli provides the cobra command tree for mapscraper.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired in by the composition root.
var (
	workspaces      driving.WorkspaceManager
	settingsService driving.SettingsService
	pruner          driving.WorkspacePruner
	pruneInterval   = time.Minute
)

var verbose bool

// Services holds the driving ports the commands operate on.
type Services struct {
	Workspaces driving.WorkspaceManager
	Settings   driving.SettingsService

	// Pruner discards idle sessions in long-running commands. Optional.
	Pruner        driving.WorkspacePruner
	PruneInterval time.Duration
}

var rootCmd = &cobra.Command{
	Use:   "mapscraper",
	Short: "Collect business leads from AI map search",
	Long: `mapscraper asks an AI service grounded in Google Maps for businesses
matching a query, collects them as leads and exports them as CSV.

Run 'mapscraper settings set-key' once to store your API key, then:

  mapscraper search "coffee roasters in Portland" --more 2 --export .`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version reported by 'mapscraper version'.
func SetVersion(v string) {
	version = v
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	workspaces = s.Workspaces
	settingsService = s.Settings
	pruner = s.Pruner
	if s.PruneInterval > 0 {
		pruneInterval = s.PruneInterval
	}
}

// startPruner runs the idle-session pruner for long-running commands.
// The returned function stops it.
func startPruner(ctx context.Context) func() {
	if pruner == nil {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		if err := pruner.Start(ctx, pruneInterval); err != nil && ctx.Err() == nil {
			logger.Warn("session pruner stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		if err := pruner.Stop(); err != nil {
			logger.Warn("session pruner stop error: %v", err)
		}
	}
}

// Execute runs the root command. Cancelling ctx stops long-running commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
