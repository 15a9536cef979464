/*
main.go - Application entry point

PURPOSE:

	Initializes and starts the Kintaraa platform server. Handles
	configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
 1. Parse CLI flags (cobra)
 2. Load TOML config
 3. Open the SQLite archive and replay it into the ledger
 4. Wire dispatcher, registry and HTTP handler
 5. Start server with graceful shutdown

COMMANDS:

	serve          Run the HTTP server
	  --config     TOML config path (default: kintaraa.toml)
	  --port       Override server.port
	  --archive    Override archive.path (":memory:" for in-process,
	               "" to disable archiving)

GRACEFUL SHUTDOWN:

	On SIGINT/SIGTERM:
	1. Stop accepting new connections
	2. Wait for active requests to complete (30s timeout)
	3. Close the archive
	4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration format
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Kintaraa/kentaraa/api"
	"github.com/Kintaraa/kentaraa/config"
	"github.com/Kintaraa/kentaraa/platform"
	"github.com/Kintaraa/kentaraa/store/sqlite"
	"github.com/Kintaraa/kentaraa/tokens"
)

var (
	flagConfig  string
	flagPort    int
	flagArchive string
)

var rootCmd = &cobra.Command{
	Use:   "kentaraa",
	Short: "Kintaraa platform backend",
	Long: `Backend for the Kintaraa incident and service-request platform:
token ledger, reward dispatch, reports, service requests and appointments.`,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagConfig, "config", "kintaraa.toml", "TOML config path")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Override server port")
	serveCmd.Flags().StringVar(&flagArchive, "archive", "", "Override archive path")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if cmd.Flags().Changed("archive") {
		cfg.Archive.Path = flagArchive
	}

	// Archive + ledger
	var archive tokens.Archive
	if cfg.Archive.Path != "" {
		sa, err := sqlite.New(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer sa.Close()
		archive = sa
	}

	ledger := tokens.NewLedger(cfg.Rewards.InitialGrant, archive)
	if err := ledger.Restore(context.Background()); err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}

	dispatcher := tokens.NewDispatcher(ledger, tokens.Amounts{
		InitialGrant:     cfg.Rewards.InitialGrant,
		DailyEngagement:  cfg.Rewards.DailyEngagement,
		ReportSubmission: cfg.Rewards.ReportSubmission,
		CommunityPost:    cfg.Rewards.CommunityPost,
	}, log)

	admins := make([]tokens.Identity, len(cfg.Admin.Principals))
	for i, p := range cfg.Admin.Principals {
		admins[i] = tokens.Identity(p)
	}
	registry := platform.NewRegistry(dispatcher, admins)

	handler := api.NewHandler(ledger, dispatcher, registry, log)
	router := api.NewRouter(handler, log, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
