package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hakim/driftwatch/internal/models"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	ports := make([]int, len(models.DefaultPorts))
	copy(ports, models.DefaultPorts)

	return &Config{
		SnapshotDir: "snapshots",
		DBPath:      "drift_history.db",
		PolicyPath:  "baselines/baseline_policy.yml",
		Capture: CaptureConfig{
			Timeout:     350 * time.Millisecond,
			Concurrency: 16,
			Ports:       ports,
		},
		Scope: ScopeConfig{
			AllowedHosts: []string{},
			AllowedCIDRs: []string{},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			FilePath:   "logs/driftwatch.log",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// fileConfig is the on-disk form. The capture timeout is written as a
// duration string ("350ms") rather than nanoseconds.
type fileConfig struct {
	Config  `yaml:",inline"`
	Capture struct {
		Timeout     string `yaml:"timeout"`
		Concurrency int    `yaml:"concurrency"`
		Ports       []int  `yaml:"ports,flow"`
	} `yaml:"capture"`
}

// WriteDefault writes a default configuration to the specified path
func WriteDefault(path string) error {
	cfg := DefaultConfig()

	out := fileConfig{Config: *cfg}
	out.Capture.Timeout = cfg.Capture.Timeout.String()
	out.Capture.Concurrency = cfg.Capture.Concurrency
	out.Capture.Ports = cfg.Capture.Ports

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
