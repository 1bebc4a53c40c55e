package main

import (
	"encoding/json"
	"fmt"

	"github.com/hakim/driftwatch/internal/metrics"
	"github.com/hakim/driftwatch/internal/models"
	"github.com/hakim/driftwatch/internal/pipeline"
	"github.com/hakim/driftwatch/internal/report"
	"github.com/spf13/cobra"
)

var checkDriftCmd = &cobra.Command{
	Use:   "check-drift",
	Short: "Evaluate a snapshot against the baseline policy and record the run",
	Long: `Load a snapshot and the baseline policy, score every open port that the
policy flags or does not expect, and store the result in the run history.

Scoring:
  flagged port open      +60 when its severity is HIGH, else +35
  unexpected port open   +25 when its severity is MEDIUM, else +10
Risk level is HIGH at 80 or more, MEDIUM at 35 or more, otherwise LOW.

A malformed snapshot or policy, or a history store that cannot be written,
fails the command with a non-zero exit code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		snapshotPath, _ := cmd.Flags().GetString("snapshot")
		policyPath, _ := cmd.Flags().GetString("policy")
		reportPath, _ := cmd.Flags().GetString("report")
		asJSON, _ := cmd.Flags().GetBool("json")
		metricsPath, _ := cmd.Flags().GetString("metrics-file")

		if policyPath == "" {
			policyPath = cfg.PolicyPath
		}
		if metricsPath == "" {
			metricsPath = cfg.Metrics.TextfilePath
		}

		check := pipeline.CheckConfig{
			SnapshotPath: snapshotPath,
			PolicyPath:   policyPath,
			Notify:       &pipeline.NotifyConfig{WebhookURL: cfg.Notify.WebhookURL},
			Logger:       log,
		}

		// Step 2: Parse inputs before the history store is created
		in, err := pipeline.LoadInputs(check)
		if err != nil {
			return fmt.Errorf("%s: %w", describeError(err), err)
		}

		// Step 3: Open bbolt store, evaluate and persist
		store, err := openStore()
		if err != nil {
			return fmt.Errorf("%s: %w", describeError(err), err)
		}
		defer store.Close()

		res, err := pipeline.RecordCheck(check, in, store)
		if err != nil {
			return fmt.Errorf("%s: %w", describeError(err), err)
		}
		run := res.Run

		// Step 4: Optional side outputs. Failures here are warnings; the run
		// is already saved.
		if reportPath != "" {
			if err := report.WriteDriftReport(run, reportPath); err != nil {
				fmt.Printf("[!] Warning: failed to write drift report: %v\n", err)
			} else {
				fmt.Printf("[+] Drift report written to %s\n", reportPath)
			}
		}
		if metricsPath != "" {
			m := metrics.New()
			m.RecordRun(run)
			if err := m.WriteTextfile(metricsPath); err != nil {
				log.WithError(err).Warn("failed to write metrics textfile")
			}
		}

		// Step 5: Print
		if asJSON {
			data, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling run: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printRun(run)
		return nil
	},
}

// printRun writes the human-readable check-drift summary
func printRun(run *models.DriftRun) {
	fmt.Printf("Target:   %s\n", run.Host)
	fmt.Printf("Captured: %s\n", run.CapturedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	fmt.Printf("Risk:     %s (score=%d)\n", run.Result.RiskLevel, run.Result.RiskScore)
	fmt.Printf("[+] Saved drift run id=%d\n", run.ID)

	if len(run.Result.Findings) == 0 {
		fmt.Println("[+] No drift detected")
		return
	}

	fmt.Println("Findings:")
	for _, f := range run.Result.Findings {
		fmt.Printf("  - [%s] %s\n", f.Severity, f.Detail)
	}
}

func init() {
	checkDriftCmd.Flags().StringP("snapshot", "s", "", "Path to snapshot JSON (required)")
	checkDriftCmd.Flags().StringP("policy", "p", "", "Baseline policy YAML/JSON (default: policy_path from config)")
	checkDriftCmd.Flags().String("report", "", "Also write a markdown report to this path")
	checkDriftCmd.Flags().Bool("json", false, "Print the stored run as JSON")
	checkDriftCmd.Flags().String("metrics-file", "", "Write prometheus textfile metrics to this path (default: metrics.textfile_path)")
	checkDriftCmd.MarkFlagRequired("snapshot")
	rootCmd.AddCommand(checkDriftCmd)
}
