package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the retrieval provider, location, export and storage options.

Use subcommands to change a single value or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a single setting",
	Long: `Set a single setting by its config key.

Keys:
  retrieval.provider         gemini | openai
  retrieval.model            model name
  retrieval.base_url         API endpoint override
  retrieval.api_key          API key (prefer 'settings set-key')
  retrieval.timeout_seconds  per-request limit, 0 disables
  location.enabled           true | false, default for --near
  location.provider          ip | static
  location.latitude          static latitude
  location.longitude         static longitude
  location.timeout_seconds   wait for a location fix
  export.columns             comma-separated, e.g. name,phone,website
  export.dir                 default export directory
  storage.backend            memory | sqlite`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the API key for the current provider",
	Long: `Prompt for the API key of the configured provider and store it in the
OS keyring. The key is not echoed.`,
	Args: cobra.NoArgs,
	RunE: runSettingsSetKey,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to choose a provider, model and API key.`,
	RunE:  runSettingsWizard,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the provider is reachable",
	RunE:  runSettingsValidate,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	r := settings.Retrieval
	cmd.Println("[Retrieval]")
	cmd.Printf("  Provider: %s\n", r.Provider.Description())
	cmd.Printf("  Model: %s\n", r.Model)
	if r.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", r.BaseURL)
	}
	if r.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(r.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	if r.TimeoutSeconds > 0 {
		cmd.Printf("  Timeout: %ds\n", r.TimeoutSeconds)
	} else {
		cmd.Printf("  Timeout: none\n")
	}
	status := "configured"
	if !r.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	l := settings.Location
	cmd.Println("[Location]")
	cmd.Printf("  Use by default: %s\n", yesNo(l.Enabled))
	cmd.Printf("  Provider: %s\n", l.Provider)
	if l.Provider == domain.GeoProviderStatic {
		cmd.Printf("  Coordinates: %s\n", domain.GeoLocation{Latitude: l.Latitude, Longitude: l.Longitude})
	}
	cmd.Printf("  Timeout: %ds\n", l.TimeoutSeconds)
	cmd.Println()

	cmd.Println("[Export]")
	cmd.Printf("  Columns: %s\n", strings.Join(settings.Export.Columns, ", "))
	cmd.Printf("  Directory: %s\n", settings.Export.Dir)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'mapscraper settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	key, value := args[0], args[1]
	if err := settingsService.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == "retrieval.api_key" {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Enter API key for %s: ", settings.Retrieval.Provider.Description())
	apiKey := readPassword(cmd.InOrStdin())
	cmd.Println()

	if err := settingsService.SetAPIKey(apiKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Println("API key saved.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	cmd.Println("MapScraper Settings Wizard")
	cmd.Println("==========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Configure Retrieval Provider")
	cmd.Println("------------------------------------")
	if err := configureProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Step 2: Location")
	cmd.Println("----------------")
	cmd.Print("Search around your current location by default? [y/N]: ")
	useLocation := strings.EqualFold(readLine(reader), "y")
	if err := settingsService.SetValue("location.enabled", strconv.FormatBool(useLocation)); err != nil {
		return fmt.Errorf("failed to set location: %w", err)
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	if err := settingsService.Validate(); err != nil {
		return withHint(err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateRetrievalConfig(); err != nil {
		cmd.Println("FAILED")
		return withHint(err)
	}
	cmd.Println("OK")
	return nil
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Provider")
	providers := domain.AllProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	if err := settingsService.SetProvider(selectedProvider, model); err != nil {
		return fmt.Errorf("failed to configure provider: %w", err)
	}

	cmd.Print("Enter API key (leave empty to use the environment): ")
	apiKey := readLine(reader)
	if apiKey != "" {
		if err := settingsService.SetAPIKey(apiKey); err != nil {
			return fmt.Errorf("failed to store API key: %w", err)
		}
	}

	if err := settingsService.Validate(); err == nil {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateRetrievalConfig(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("provider validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("Provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a line without echo when in is a terminal.
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(bufio.NewReader(in))
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
