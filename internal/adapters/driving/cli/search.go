package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
)

const notAvailable = "N/A"

var (
	searchCategory string
	searchNear     bool
	searchLat      float64
	searchLng      float64
	searchMore     int
	searchExport   string
	searchCopy     bool
	searchJSON     bool
	searchRaw      bool
	searchExamples bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for business leads",
	Long: `Asks the configured AI service for businesses matching the query and
prints them as a table.

Use --more to fetch additional batches; businesses already found are
excluded from each follow-up request. Results can be written to a dated CSV
file with --export or copied to the clipboard with --copy.

Categories: ` + categoryList(),
	Example: `  mapscraper search "sushi bars in Seattle" -c restaurants
  mapscraper search "car repair shops" --near --more 2 --export ./leads
  mapscraper search --examples`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "category filter")
	searchCmd.Flags().BoolVar(&searchNear, "near", false, "search around your current location")
	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "latitude to search around (requires --lng)")
	searchCmd.Flags().Float64Var(&searchLng, "lng", 0, "longitude to search around (requires --lat)")
	searchCmd.Flags().IntVar(&searchMore, "more", 0, "number of follow-up batches to fetch")
	searchCmd.Flags().StringVar(&searchExport, "export", "", "write map_leads_<date>.csv into this directory")
	searchCmd.Flags().BoolVar(&searchCopy, "copy", false, "copy the CSV export to the clipboard")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "also print the raw model responses")
	searchCmd.Flags().BoolVar(&searchExamples, "examples", false, "list example searches")
	rootCmd.AddCommand(searchCmd)
}

// searchOutput is the --json document.
type searchOutput struct {
	Query    string              `json:"query"`
	Category string              `json:"category"`
	Location *domain.GeoLocation `json:"location,omitempty"`
	Count    int                 `json:"count"`
	Leads    []domain.Lead       `json:"leads"`
	Notices  []string            `json:"notices,omitempty"`
	Raw      string              `json:"raw,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchExamples {
		printExamples(cmd)
		return nil
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("a search query is required (try --examples)")
	}
	if workspaces == nil {
		return errNoWorkspaces
	}

	req, err := buildSearchRequest(cmd, query)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ws, err := workspaces.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer workspaces.Close(ws.ID()) //nolint:errcheck // session is discarded on exit

	notices, err := collectLeads(ctx, ws, req, searchMore)
	if err != nil {
		return withHint(err)
	}

	leads, err := ws.Leads(ctx)
	if err != nil {
		return fmt.Errorf("failed to read results: %w", err)
	}
	params, _ := ws.Parameters()

	if searchJSON {
		if err := outputSearchJSON(cmd, params, leads, notices, ws.RawResponse()); err != nil {
			return err
		}
	} else {
		outputSearchTable(cmd, leads, notices)
		if searchRaw || len(leads) == 0 {
			outputRaw(cmd, ws.RawResponse())
		}
	}

	return exportLeads(ctx, cmd, ws, len(leads))
}

// buildSearchRequest merges flags with the configured location defaults.
func buildSearchRequest(cmd *cobra.Command, query string) (domain.SearchRequest, error) {
	req := domain.SearchRequest{
		Query:       query,
		Category:    searchCategory,
		UseLocation: searchNear,
	}

	if !cmd.Flags().Changed("near") && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			req.UseLocation = settings.Location.Enabled
		}
	}

	latSet, lngSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lng")
	if latSet != lngSet {
		return domain.SearchRequest{}, errors.New("--lat and --lng must be given together")
	}
	if latSet {
		loc := domain.GeoLocation{Latitude: searchLat, Longitude: searchLng}
		if !loc.IsValid() {
			return domain.SearchRequest{}, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalidInput)
		}
		req.Location = &loc
	}
	return req, nil
}

// collectLeads runs the first fetch and up to more follow-ups.
// Soft conditions become notices and stop further fetching.
func collectLeads(ctx context.Context, ws driving.Workspace, req domain.SearchRequest, more int) ([]string, error) {
	var notices []string

	if _, err := ws.Start(ctx, req); err != nil {
		if !domain.IsSoft(err) {
			return nil, err
		}
		return append(notices, err.Error()), nil
	}

	for i := 0; i < more; i++ {
		if _, err := ws.LoadMore(ctx); err != nil {
			if !domain.IsSoft(err) {
				return nil, err
			}
			notices = append(notices, err.Error())
			break
		}
	}
	return notices, nil
}

func outputSearchJSON(
	cmd *cobra.Command,
	params domain.SearchParameters,
	leads []domain.Lead,
	notices []string,
	raw string,
) error {
	out := searchOutput{
		Query:    params.Query,
		Category: params.Category.String(),
		Location: params.Location,
		Count:    len(leads),
		Leads:    make([]domain.Lead, len(leads)),
		Notices:  notices,
	}
	copy(out.Leads, leads)
	if searchRaw {
		out.Raw = raw
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, leads []domain.Lead, notices []string) {
	for _, n := range notices {
		cmd.PrintErrf("Note: %s\n", n)
	}

	if len(leads) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		return
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderLeadTable(leads))
	fmt.Fprintf(cmd.OutOrStdout(), "Found %d results\n", len(leads))
}

// renderLeadTable draws the leads as a bordered table.
func renderLeadTable(leads []domain.Lead) string {
	rows := make([][]string, len(leads))
	for i := range leads {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			orNA(leads[i].Name()),
			orNA(leads[i].Phone()),
			orNA(leads[i].Rating()),
			orNA(leads[i].Address()),
			orNA(leads[i].Website()),
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Name", "Phone", "Rating", "Address", "Website").
		Rows(rows...).
		String()
}

func outputRaw(cmd *cobra.Command, raw string) {
	if raw == "" {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Raw response:")
	fmt.Fprintln(cmd.OutOrStdout(), raw)
}

// exportLeads writes and copies the CSV as requested by flags.
func exportLeads(ctx context.Context, cmd *cobra.Command, ws driving.Workspace, count int) error {
	if searchExport == "" && !searchCopy {
		return nil
	}
	if count == 0 {
		cmd.PrintErrln("Note: nothing to export")
		return nil
	}

	if searchExport != "" {
		path, err := ws.WriteFile(ctx, searchExport, time.Now())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		cmd.PrintErrf("Saved %d leads to %s\n", count, path)
	}

	if searchCopy {
		if err := ws.CopyToClipboard(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		cmd.PrintErrln("Copied CSV to clipboard")
	}
	return nil
}

func printExamples(cmd *cobra.Command) {
	fmt.Fprintln(cmd.OutOrStdout(), "Example searches:")
	for _, e := range domain.ExampleSearches() {
		fmt.Fprintf(cmd.OutOrStdout(), "  mapscraper search %q -c %q\n", e.Query, e.Category.String())
	}
}

func categoryList() string {
	categories := domain.AllCategories()
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
