package main

import (
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/de-tools/time-atlas/pkg/server"
	"github.com/de-tools/time-atlas/pkg/services/config"
	"github.com/de-tools/time-atlas/pkg/services/daterange"
	"github.com/de-tools/time-atlas/pkg/services/report"
	"github.com/de-tools/time-atlas/pkg/store/reportcache"
	"github.com/de-tools/time-atlas/pkg/store/snapshot"
	"github.com/de-tools/time-atlas/pkg/store/sqlite"
	"github.com/de-tools/time-atlas/pkg/store/sqlite/entries"
	"github.com/de-tools/time-atlas/pkg/store/sqlite/rates"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Time Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (defaults apply when omitted)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: cfg.DBPath})
	if err != nil {
		return fmt.Errorf("failed to open snapshot database: %w", err)
	}
	defer db.Close()

	entryStore, err := entries.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create entry store: %w", err)
	}
	rateStore, err := rates.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create rate store: %w", err)
	}
	provider, err := snapshot.NewProvider(entryStore, rateStore)
	if err != nil {
		return fmt.Errorf("failed to create snapshot provider: %w", err)
	}

	builder := report.NewBuilder(provider, provider, daterange.NewResolver(), cfg.Policy())
	reports := report.NewService(builder, reportcache.New(cfg.CacheTTL))

	logger.Info().
		Str("db", cfg.DBPath).
		Str("policy", cfg.BillablePolicy).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("report engine ready")

	mux := server.ConfigureRouter(server.Config{
		Dependencies: server.Dependencies{
			Reports: reports,
			Logger:  logger,
		},
	})

	addr := cfg.Addr
	if host, port := os.Getenv("SERVER_HOST"), os.Getenv("SERVER_PORT"); host != "" && port != "" {
		addr = net.JoinHostPort(host, port)
	}

	logger.Info().Msgf("starting server on %s", addr)

	return http.ListenAndServe(addr, mux)
}
