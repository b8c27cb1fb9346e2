package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bfreelanceseo/MapScraperPro/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a JSON HTTP API for lead searches.

Routes:
  POST   /sessions                 start a search
  POST   /sessions/{id}/more       fetch another batch
  GET    /sessions/{id}/leads      list collected leads
  GET    /sessions/{id}/export.csv download the CSV export
  DELETE /sessions/{id}            discard a session
  GET    /health                   liveness check

With --port 0 the first free port from 8080 is used.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("host", "H", "127.0.0.1", "interface to listen on")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on (0 = first free port from 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return fmt.Errorf("getting host flag: %w", err)
	}
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if port == 0 {
		port, err = httpapi.FindAvailablePort(8080, 8180)
		if err != nil {
			return err
		}
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Workspaces: workspaces,
		Settings:   settingsService,
	})
	if err != nil {
		return err
	}

	stop := startPruner(cmd.Context())
	defer stop()

	addr := fmt.Sprintf("%s:%d", host, port)
	fmt.Fprintf(cmd.ErrOrStderr(), "HTTP API listening on http://%s\n", addr)
	return server.Run(cmd.Context(), addr)
}
