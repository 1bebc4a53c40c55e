package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	SnapshotDir string        `mapstructure:"snapshot_dir" yaml:"snapshot_dir"`
	DBPath      string        `mapstructure:"db_path" yaml:"db_path"`
	PolicyPath  string        `mapstructure:"policy_path" yaml:"policy_path"`
	Capture     CaptureConfig `mapstructure:"capture" yaml:"-"`
	Scope       ScopeConfig   `mapstructure:"scope" yaml:"scope"`
	Log         LogConfig     `mapstructure:"log" yaml:"log"`
	Notify      NotifyConfig  `mapstructure:"notify" yaml:"notify"`
	Metrics     MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// CaptureConfig controls port probing
type CaptureConfig struct {
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	Ports       []int         `mapstructure:"ports" yaml:"ports"`
}

// ScopeConfig limits which targets may be probed. Empty lists allow any target.
type ScopeConfig struct {
	AllowedHosts []string `mapstructure:"allowed_hosts" yaml:"allowed_hosts"`
	AllowedCIDRs []string `mapstructure:"allowed_cidrs" yaml:"allowed_cidrs"`
}

// LogConfig configures the logrus logger and lumberjack rotation
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	Output     string `mapstructure:"output" yaml:"output"`
	FilePath   string `mapstructure:"file_path" yaml:"file_path"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// NotifyConfig holds the optional completion webhook
type NotifyConfig struct {
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
}

// MetricsConfig holds the optional prometheus textfile target
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path" yaml:"textfile_path"`
}

// Load reads configuration from path, or searches for driftwatch.yaml in the
// current directory, ./configs and ~/.config/driftwatch when path is empty.
// A missing config file is not an error: defaults apply. Environment
// variables prefixed DRIFTWATCH_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix("DRIFTWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		// Use explicit path
		v.SetConfigFile(path)
	} else {
		// Search for config in default locations
		v.SetConfigName("driftwatch")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		homeDir, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "driftwatch"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case path != "" && errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key of DefaultConfig with viper so that env
// overrides work even without a config file.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("snapshot_dir", d.SnapshotDir)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("policy_path", d.PolicyPath)
	v.SetDefault("capture.timeout", d.Capture.Timeout)
	v.SetDefault("capture.concurrency", d.Capture.Concurrency)
	v.SetDefault("capture.ports", d.Capture.Ports)
	v.SetDefault("scope.allowed_hosts", d.Scope.AllowedHosts)
	v.SetDefault("scope.allowed_cidrs", d.Scope.AllowedCIDRs)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
	v.SetDefault("log.file_path", d.Log.FilePath)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("notify.webhook_url", d.Notify.WebhookURL)
	v.SetDefault("metrics.textfile_path", d.Metrics.TextfilePath)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.SnapshotDir == "" {
		errs = append(errs, errors.New("snapshot_dir cannot be empty"))
	}

	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path cannot be empty"))
	}

	if c.PolicyPath == "" {
		errs = append(errs, errors.New("policy_path cannot be empty"))
	}

	if c.Capture.Timeout <= 0 {
		errs = append(errs, errors.New("capture.timeout must be positive"))
	}

	if c.Capture.Concurrency <= 0 {
		errs = append(errs, errors.New("capture.concurrency must be positive"))
	}

	for _, p := range c.Capture.Ports {
		if !models.ValidPort(p) {
			errs = append(errs, fmt.Errorf("capture.ports: invalid port %d", p))
		}
	}

	if c.Log.Output == "file" && c.Log.FilePath == "" {
		errs = append(errs, errors.New("log.file_path is required when log.output is file"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
