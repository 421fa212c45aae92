package main

import (
	"fmt"
	"os"

	"github.com/de-tools/time-atlas/pkg/runtime/terminal"
	"github.com/de-tools/time-atlas/pkg/services/config"
	"github.com/de-tools/time-atlas/pkg/services/daterange"
	"github.com/de-tools/time-atlas/pkg/services/report"
	"github.com/de-tools/time-atlas/pkg/store/snapshot"
	"github.com/de-tools/time-atlas/pkg/store/sqlite"
	"github.com/de-tools/time-atlas/pkg/store/sqlite/entries"
	"github.com/de-tools/time-atlas/pkg/store/sqlite/rates"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("TIME_ATLAS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := sqlite.NewDB(sqlite.Settings{DbPath: cfg.DBPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	entryStore, err := entries.NewStore(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rateStore, err := rates.NewStore(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	provider, err := snapshot.NewProvider(entryStore, rateStore)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	builder := report.NewBuilder(provider, provider, daterange.NewResolver(), cfg.Policy())

	cli := terminal.NewCLI(terminal.Options{
		Reports: builder,
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
