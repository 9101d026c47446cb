package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lorekeep/lorekeep/internal/config"
	"github.com/lorekeep/lorekeep/internal/integrity"
	"github.com/lorekeep/lorekeep/internal/storage"
)

var (
	cfgPath string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "lorekeep",
	Short: "Campaign entity integrity tooling",
	Long: `Lorekeep maintenance tooling for campaign data: duplicate detection,
quality-scored cleanup with preview, and read-only integrity audits
across all entity collections.

The CRUD application owns creating and editing entities; this tool only
reads them (audit, preview) or deletes duplicate losers (cleanup).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file path (default: lorekeep.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
}

// loadConfig resolves configuration with the --db flag taking precedence.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

// initEngine opens the store registry and builds the integrity engine.
// The returned cleanup function closes the store.
func initEngine(ctx context.Context) (*integrity.Engine, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	reg, err := storage.Open(ctx, &storage.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	engine := integrity.New(reg,
		integrity.WithWeights(cfg.Scoring),
		integrity.WithAuditFanOut(cfg.AuditFanOut),
		integrity.WithDeleteRate(cfg.DeleteRatePerSec),
	)
	return engine, func() { _ = reg.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
