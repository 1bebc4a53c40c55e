// Package logging builds the logrus logger used for diagnostics. Operator
// facing command output is printed directly and does not go through here.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hakim/driftwatch/internal/config"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// New constructs a logger from cfg. An unparseable level falls back to info.
// The returned closer releases the rotating file, if any.
func New(cfg config.LogConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		defer logger.Warnf("Invalid log level %q, using info", cfg.Level)
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: timestampFormat,
			FullTimestamp:   true,
		})
	default:
		return nil, nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}

	var closer io.Closer = nopCloser{}
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		logger.SetOutput(os.Stdout)
	case "stderr", "":
		logger.SetOutput(os.Stderr)
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("file path is required when output is file")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize, // MB
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge, // days
			Compress:   cfg.Compress,
		}
		logger.SetOutput(rotator)
		closer = rotator
	default:
		return nil, nil, fmt.Errorf("unsupported log output: %s", cfg.Output)
	}

	return logger, closer, nil
}

// Verbose raises the logger to debug level
func Verbose(logger *logrus.Logger) {
	logger.SetLevel(logrus.DebugLevel)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
