package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hakim/driftwatch/internal/capture"
	"github.com/hakim/driftwatch/internal/pipeline"
	"github.com/hakim/driftwatch/internal/snapshot"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Probe a host and save a port snapshot",
	Long: `Attempt one TCP connection per port against the target and record which
ports accepted. Refused, filtered and unreachable ports are simply recorded
as closed, so a host that refuses everything still yields a valid snapshot.

The probe set comes from --ports, else --preset, else capture.ports in the
config. Results are saved to:
  {out}/snapshot_{host}_{YYYYMMDDTHHMMSSZ}.json

Examples:
  driftwatch capture --target 10.0.0.5
  driftwatch capture --target web01.example.com --preset web
  driftwatch capture --target 10.0.0.5 --ports 22,80,443 --out /var/lib/driftwatch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		target, _ := cmd.Flags().GetString("target")
		outDir, _ := cmd.Flags().GetString("out")
		presetName, _ := cmd.Flags().GetString("preset")
		ports, _ := cmd.Flags().GetIntSlice("ports")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		if outDir == "" {
			outDir = cfg.SnapshotDir
		}
		if timeout <= 0 {
			timeout = cfg.Capture.Timeout
		}
		if concurrency <= 0 {
			concurrency = cfg.Capture.Concurrency
		}

		// Step 2: Scope check
		scope := &pipeline.ScopeConfig{
			AllowedHosts: cfg.Scope.AllowedHosts,
			AllowedCIDRs: cfg.Scope.AllowedCIDRs,
		}
		if err := scope.Validate(); err != nil {
			return err
		}
		if err := scope.ValidateTarget(target); err != nil {
			return fmt.Errorf("refusing to probe: %w", err)
		}

		// Step 3: Resolve probe set
		if len(ports) == 0 && presetName != "" {
			preset, err := pipeline.GetPreset(presetName)
			if err != nil {
				return err
			}
			ports = preset.Ports
		}
		if len(ports) == 0 {
			ports = cfg.Capture.Ports
		}

		// Step 4: Probe
		fmt.Printf("[*] Probing %d ports on %s (timeout %s, %d workers)\n", len(ports), target, timeout, concurrency)
		start := time.Now()
		obs, err := capture.Capture(cmd.Context(), target, capture.Config{
			Ports:       ports,
			Concurrency: concurrency,
			Timeout:     timeout,
			Logger:      log,
		})
		if err != nil {
			return err
		}

		// Step 5: Save snapshot
		path, err := snapshot.Save(outDir, obs)
		if err != nil {
			return err
		}

		fmt.Printf("[+] Capture finished in %s\n", time.Since(start).Round(time.Millisecond))
		fmt.Printf("[+] Snapshot saved: %s\n", path)

		observed, err := json.MarshalIndent(obs.Observed, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling observed ports: %w", err)
		}
		fmt.Println(string(observed))

		return nil
	},
}

func init() {
	captureCmd.Flags().StringP("target", "t", "", "Target host or IP (required, authorized targets only)")
	captureCmd.Flags().StringP("out", "o", "", "Output directory for snapshots (default: snapshot_dir from config)")
	captureCmd.Flags().String("preset", "", "Named port preset (see 'driftwatch presets')")
	captureCmd.Flags().IntSlice("ports", nil, "Comma-separated ports to probe (overrides --preset)")
	captureCmd.Flags().Duration("timeout", 0, "Per-port connect timeout (default: capture.timeout from config)")
	captureCmd.Flags().Int("concurrency", 0, "Maximum simultaneous probes (default: capture.concurrency from config)")
	captureCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(captureCmd)
}
