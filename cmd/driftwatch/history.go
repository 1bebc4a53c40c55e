package main

import (
	"fmt"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent drift check runs",
	Long: `Display a formatted table of past drift runs, newest first.

Each row shows the run ID, host, risk level and score, snapshot capture time
and the time the run was recorded. Use --host to restrict the listing to one
target and --limit to cap the number of rows (default: 20, 0 for all).

Exits with code 3 when there is no history to show.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		host, _ := cmd.Flags().GetString("host")
		limit, _ := cmd.Flags().GetInt("limit")

		// Step 2: Open bbolt store
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		// Step 3: List runs (sorted newest-first by the store)
		var runs []*models.DriftRunSummary
		if host != "" {
			runs, err = store.ListRunsForHost(host, limit)
		} else {
			runs, err = store.ListRecentRuns(limit)
		}
		if err != nil {
			return fmt.Errorf("listing drift runs: %w", err)
		}

		if len(runs) == 0 {
			if host != "" {
				fmt.Printf("No drift runs found for %s.\n", host)
			} else {
				fmt.Println("No drift runs found.")
			}
			return &exitError{code: exitEmptyHistory}
		}

		// Step 4: Print formatted table
		const separator = "────────────────────────────────────────────────────────────────────────────────"

		fmt.Println()
		fmt.Println(separator)
		fmt.Printf("  %-6s  %-24s  %-14s  %-20s  %s\n", "ID", "Host", "Risk", "Captured", "Recorded")
		fmt.Println(separator)

		for _, r := range runs {
			fmt.Printf("  %-6d  %-24s  %-14s  %-20s  %s\n",
				r.ID,
				truncate(r.Host, 24),
				fmt.Sprintf("%s(%d)", r.RiskLevel, r.RiskScore),
				r.CapturedAt.UTC().Format("2006-01-02 15:04:05"),
				r.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		}

		fmt.Println(separator)
		fmt.Printf("Total: %d run(s)\n\n", len(runs))

		return nil
	},
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func init() {
	historyCmd.Flags().String("host", "", "Only show runs for this host")
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to display (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
