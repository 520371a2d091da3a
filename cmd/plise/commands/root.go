package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/Simplici0/plise/cmd/plise/output"
	"github.com/Simplici0/plise/internal/config"
	"github.com/Simplici0/plise/internal/db"
	"github.com/Simplici0/plise/internal/logging"
	"github.com/Simplici0/plise/internal/pricebook"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	// Global flags
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "plise",
	Short: "Pleated insect screen cost and price calculator",
	Long: `plise computes material quantities, production cost and sale price
for pleated insect screens from a list of width x height measurements.

Prices live in a price book stored either as prices.json or in the
SQLite database, depending on store.driver.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.Writer = cmd.OutOrStdout()
		// Viewer launch output must not mix with --json documents.
		browser.Stdout = cmd.ErrOrStderr()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// env bundles what every command needs.
type env struct {
	cfg    config.Config
	log    *slog.Logger
	prices pricebook.Repository
	db     *sql.DB
}

func (e *env) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// openEnv loads configuration and the price book store. The database is only
// opened for the sqlite driver or when needDB is set.
func openEnv(needDB bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &env{
		cfg: cfg,
		log: logging.Init(logging.Options{Component: "cli", File: cfg.Log.File, Level: cfg.Log.Level, Output: os.Stderr}),
	}

	if needDB || cfg.Store.Driver == config.StoreSQLite {
		e.db, err = db.OpenMigrated(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database %s: %w", cfg.Store.DBPath, err)
		}
	}

	if cfg.Store.Driver == config.StoreSQLite {
		e.prices = pricebook.NewSQLiteStore(e.db)
	} else {
		e.prices = pricebook.NewFileStore(cfg.Store.PricesPath)
	}
	return e, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
