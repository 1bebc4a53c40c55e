package main

import (
	"encoding/json"
	"fmt"

	"github.com/hakim/driftwatch/internal/diff"
	"github.com/hakim/driftwatch/internal/report"
	"github.com/hakim/driftwatch/internal/snapshot"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var diffSnapshotsCmd = &cobra.Command{
	Use:   "diff-snapshots",
	Short: "Compare two snapshots and report opened and closed ports",
	Long: `Compare the open ports of two snapshot files. Ports open only in --after are
reported as OPENED, ports open only in --before as CLOSED. No policy is
involved and nothing is written to the run history.

Having changes is not a failure; the command exits 0 whenever both
snapshots load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		beforePath, _ := cmd.Flags().GetString("before")
		afterPath, _ := cmd.Flags().GetString("after")
		reportPath, _ := cmd.Flags().GetString("report")
		asJSON, _ := cmd.Flags().GetBool("json")

		// Step 2: Load both snapshots
		before, err := snapshot.Load(beforePath)
		if err != nil {
			return fmt.Errorf("loading before snapshot: %w", err)
		}
		after, err := snapshot.Load(afterPath)
		if err != nil {
			return fmt.Errorf("loading after snapshot: %w", err)
		}

		if !diff.SameHost(before, after) {
			log.WithFields(logrus.Fields{
				"before_host": before.Host(),
				"after_host":  after.Host(),
			}).Warn("snapshots describe different hosts")
		}

		// Step 3: Compute diff
		result := diff.ComputeDiff(before, after)

		// Step 4: Optional markdown report
		if reportPath != "" {
			if err := report.WriteDiffReport(before, after, result, reportPath); err != nil {
				// Warn but do not abort, the diff is still printed below
				fmt.Printf("[!] Warning: failed to write diff report: %v\n", err)
			} else {
				fmt.Printf("[+] Diff report written to %s\n", reportPath)
			}
		}

		// Step 5: Print
		if asJSON {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling diff result: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		if len(result.Changes) == 0 {
			fmt.Println("No changes detected")
			return nil
		}

		fmt.Println("Changes:")
		for _, c := range result.Changes {
			fmt.Printf("  - %s\n", c)
		}
		return nil
	},
}

func init() {
	diffSnapshotsCmd.Flags().String("before", "", "BEFORE snapshot JSON (required)")
	diffSnapshotsCmd.Flags().String("after", "", "AFTER snapshot JSON (required)")
	diffSnapshotsCmd.Flags().String("report", "", "Also write a markdown report to this path")
	diffSnapshotsCmd.Flags().Bool("json", false, "Print the diff as JSON")
	diffSnapshotsCmd.MarkFlagRequired("before")
	diffSnapshotsCmd.MarkFlagRequired("after")
	rootCmd.AddCommand(diffSnapshotsCmd)
}
