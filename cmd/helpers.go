package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/blockdex/internal/config"
	"github.com/ziadkadry99/blockdex/internal/store"
	"github.com/ziadkadry99/blockdex/internal/summarize"
)

// loadConfig loads and validates the config, providing a user-friendly
// error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `blockdex init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured store backend under the data
// directory, creating the directory if needed.
func openStore(cfg *config.Config) (store.Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
	}
	switch cfg.Store {
	case config.StoreSQLite:
		return store.OpenSQLite(filepath.Join(cfg.DataDir, "store.db"))
	default:
		return store.OpenFile(filepath.Join(cfg.DataDir, "store.json"))
	}
}

// newSummarizer builds a Summarizer from config. Returns (nil, nil)
// when no provider is configured.
func newSummarizer(cfg *config.Config) (summarize.Summarizer, error) {
	return summarize.NewFromEnv(string(cfg.Provider), cfg.Model,
		time.Duration(cfg.SummaryTimeout)*time.Second)
}
