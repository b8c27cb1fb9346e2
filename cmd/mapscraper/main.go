// Command mapscraper collects business leads from AI map search.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/clipboard"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/config/file"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/geo/ipapi"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/geo/static"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/retrieval"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/secrets/keyring"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/storage/memory"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driven/storage/sqlite"
	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/cli"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driven"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/services"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	maxSessions    = 32
	sessionIdleTTL = 30 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Flags are parsed later by cobra; wiring warnings need verbose now.
	logger.SetVerbose(verboseRequested(os.Args[1:]))

	// Config
	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("Config file unavailable, using defaults: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		logger.Warn("Prompt directory unavailable, using built-in prompts: %v", err)
		prompts = nil
	}

	retrievers := newRetrieverFactory(prompts)

	// Settings
	settingsService := services.NewSettingsService(
		configStore,
		keyring.NewSecretStore(keyring.DefaultService),
		retrieval.NewConfigValidator(retrievers),
	)
	settingsService.SetAPIKeyFallback(apiKeyFromEnv)

	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("Failed to read settings, using defaults: %v", err)
		defaults := domain.DefaultAppSettings()
		settings = &defaults
	}

	// Collaborators
	source := services.NewRetrieverSource(retrievers, settingsService.RetrievalSettings)
	defer func() {
		if err := source.Close(); err != nil {
			logger.Debug("Closing retriever: %v", err)
		}
	}()

	columns, err := domain.ParseExportColumns(settings.Export.Columns)
	if err != nil {
		logger.Warn("Invalid export columns, using defaults: %v", err)
		columns = domain.DefaultExportColumns()
	}

	manager := services.NewWorkspaceManager(services.WorkspaceConfig{
		Retrievers:       source,
		Stores:           newStoreFactory(settings.Storage.Backend),
		Geolocator:       newGeolocator(settings.Location),
		LocateTimeout:    seconds(settings.Location.TimeoutSeconds),
		RetrievalTimeout: seconds(settings.Retrieval.TimeoutSeconds),
		ExportColumns:    columns,
		Clipboard:        clipboard.NewSystem(),
		MaxSessions:      maxSessions,
		IdleTTL:          sessionIdleTTL,
	})

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Workspaces: manager,
		Settings:   settingsService,
		Pruner:     manager,
	})
	return cli.Execute(ctx)
}

// newRetrieverFactory builds retrievers with the user's prompt overrides
// when the prompt directory is available.
func newRetrieverFactory(prompts *file.PromptStore) *retrieval.Factory {
	if prompts == nil {
		return retrieval.NewFactory(nil)
	}
	return retrieval.NewFactory(prompts)
}

func newGeolocator(cfg domain.LocationSettings) driven.Geolocator {
	switch cfg.Provider {
	case domain.GeoProviderStatic:
		return static.NewLocator(cfg.Latitude, cfg.Longitude)
	case domain.GeoProviderIP:
		return ipapi.NewLocator("", seconds(cfg.TimeoutSeconds))
	default:
		logger.Warn("Unknown location provider %q, location disabled", cfg.Provider)
		return nil
	}
}

func newStoreFactory(backend domain.StorageBackend) driven.LeadStoreFactory {
	if backend == domain.StorageSQLite {
		return sqlite.NewLeadStoreFactory()
	}
	return memory.NewLeadStoreFactory()
}

// apiKeyFromEnv is the last-resort key lookup after config and keyring.
func apiKeyFromEnv(provider domain.AIProvider) string {
	var names []string
	switch provider {
	case domain.AIProviderGemini:
		names = []string{"GEMINI_API_KEY", "API_KEY"}
	case domain.AIProviderOpenAI:
		names = []string{"OPENAI_API_KEY"}
	}
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func verboseRequested(args []string) bool {
	for _, a := range args {
		if a == "--" {
			return false
		}
		if a == "-v" || a == "--verbose" || a == "--verbose=true" {
			return true
		}
	}
	return false
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
