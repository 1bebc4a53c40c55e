package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hakim/driftwatch/internal/config"
	"github.com/hakim/driftwatch/internal/policy"
	"github.com/hakim/driftwatch/internal/storage"
	"github.com/spf13/cobra"
)

var (
	initForce bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize driftwatch with default configuration",
	Long: `Creates a default configuration file (driftwatch.yaml), a starter baseline
policy, the snapshot directory, and the history database.

This is typically the first command you run when setting up driftwatch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := filepath.Join(initDir, "driftwatch.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("config file already exists at %s. Use --force to overwrite", configPath)
		}

		// Create default config
		if err := storage.EnsureDir(initDir); err != nil {
			return fmt.Errorf("failed to create %s: %w", initDir, err)
		}
		if err := config.WriteDefault(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Printf("Created %s with default configuration\n", configPath)

		// Load the config we just created to get paths
		newCfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Starter baseline, unless one is already in place
		policyPath := resolve(initDir, newCfg.PolicyPath)
		if _, err := os.Stat(policyPath); err == nil && !initForce {
			fmt.Printf("Kept existing baseline policy: %s\n", policyPath)
		} else {
			if err := policy.WriteDefault(policyPath); err != nil {
				return fmt.Errorf("failed to create baseline policy: %w", err)
			}
			fmt.Printf("Created baseline policy: %s\n", policyPath)
		}

		// Create snapshot directory
		snapshotDir := resolve(initDir, newCfg.SnapshotDir)
		if err := storage.EnsureDir(snapshotDir); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		fmt.Printf("Created snapshot directory: %s\n", snapshotDir)

		// Initialize database
		dbPath := resolve(initDir, newCfg.DBPath)
		store, err := storage.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()
		fmt.Printf("Initialized database: %s\n", dbPath)

		// Print success message
		fmt.Println()
		fmt.Println("driftwatch initialized successfully!")
		fmt.Println("Edit the baseline policy, then run 'driftwatch capture --target <host>'.")

		return nil
	},
}

// resolve places relative config paths under dir
func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config and policy files")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "output directory")
	rootCmd.AddCommand(initCmd)
}
