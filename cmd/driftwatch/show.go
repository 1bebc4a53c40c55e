package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hakim/driftwatch/internal/report"
	"github.com/hakim/driftwatch/internal/storage"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored evaluation result of one drift run",
	Long: `Print the full evaluation result stored for a run ID from 'driftwatch history'.

Use --markdown to render the run as a markdown report instead of JSON.
Exits with code 2 when the run does not exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, _ := cmd.Flags().GetUint64("run-id")
		asMarkdown, _ := cmd.Flags().GetBool("markdown")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(runID)
		if errors.Is(err, storage.ErrRunNotFound) {
			fmt.Println("Run not found.")
			return &exitError{code: exitRunNotFound}
		}
		if err != nil {
			return err
		}

		if asMarkdown {
			fmt.Print(report.RenderDriftReport(run))
			return nil
		}

		data, err := json.MarshalIndent(run.Result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	showCmd.Flags().Uint64("run-id", 0, "Run ID from history (required)")
	showCmd.Flags().Bool("markdown", false, "Render as a markdown report")
	showCmd.MarkFlagRequired("run-id")
	rootCmd.AddCommand(showCmd)
}
