package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hakim/driftwatch/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "driftwatch.log")

	logger, closer, err := New(config.LogConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})
	require.NoError(t, err)

	logger.WithField("host", "demo-host").Info("capture complete")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"capture complete"`)
	assert.Contains(t, string(data), `"host":"demo-host"`)
}

func TestNew_Levels(t *testing.T) {
	logger, _, err := New(config.LogConfig{Level: "warn", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger, _, err = New(config.LogConfig{Level: "bogus", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	Verbose(logger)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNew_Invalid(t *testing.T) {
	_, _, err := New(config.LogConfig{Format: "xml"})
	assert.Error(t, err)

	_, _, err = New(config.LogConfig{Output: "syslog"})
	assert.Error(t, err)

	_, _, err = New(config.LogConfig{Output: "file"})
	assert.Error(t, err)
}
