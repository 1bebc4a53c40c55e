package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hakim/driftwatch/internal/config"
	"github.com/hakim/driftwatch/internal/logging"
	"github.com/hakim/driftwatch/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	verbose   bool
	cfg       *config.Config
	log       *logrus.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "driftwatch",
	Short: "Detect exposed-port drift on a host",
	Long: `driftwatch takes point-in-time snapshots of which TCP ports a host exposes,
scores each snapshot against a baseline policy of allowed and flagged ports,
and keeps a local history of every evaluation.

Typical flow:
  driftwatch capture --target 10.0.0.5
  driftwatch check-drift --snapshot snapshots/snapshot_10.0.0.5_....json
  driftwatch history
  driftwatch diff-snapshots --before old.json --after new.json

Only probe hosts you are authorized to test.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		skipConfig := map[string]bool{
			"init":    true,
			"presets": true,
			"help":    true,
		}

		if skipConfig[cmd.Name()] {
			return nil
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, logCloser, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		if verbose {
			logging.Verbose(log)
		}

		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: search for driftwatch.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	// Version flag
	rootCmd.Version = "0.1.0-dev"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// closeLog releases the log file opened by PersistentPreRunE. It runs after
// Execute returns because cobra skips post-run hooks when RunE fails.
func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing log output: %v\n", err)
	}
	logCloser = nil
}

// openStore opens the history database named by the loaded config. Callers
// own the returned store and must Close it.
func openStore() (*storage.Store, error) {
	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.WithField("db_path", cfg.DBPath).Debug("opened history store")
	return store, nil
}
