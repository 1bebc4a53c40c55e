package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/hakim/driftwatch/internal/policy"
	"github.com/hakim/driftwatch/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliSnapshot has no zone offset on captured_at, as written by tools that
// emit local ISO-8601 times.
const cliSnapshot = `{
  "meta": {"captured_at": "2025-12-26T12:00:00", "host": "demo-host", "port_list": [21, 22, 8080]},
  "observed": {"open_ports": [21, 22, 8080]}
}`

type workspace struct {
	dir      string
	dbPath   string
	config   string
	snapshot string
	policy   string
}

// newWorkspace points the history store at a temp dir and writes a default
// policy plus one snapshot next to it.
func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	dir := t.TempDir()
	ws := &workspace{
		dir:      dir,
		dbPath:   filepath.Join(dir, "history.db"),
		config:   filepath.Join(dir, "driftwatch.yaml"),
		snapshot: filepath.Join(dir, "snap.json"),
		policy:   filepath.Join(dir, "baseline.yml"),
	}
	t.Setenv("DRIFTWATCH_DB_PATH", ws.dbPath)
	t.Setenv("DRIFTWATCH_LOG_LEVEL", "error")

	require.NoError(t, policy.WriteDefault(ws.policy))
	require.NoError(t, os.WriteFile(ws.snapshot, []byte(cliSnapshot), 0644))
	return ws
}

// runCLI executes the root command with args and returns what it printed
func runCLI(t *testing.T, ws *workspace, args ...string) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	rootCmd.SetArgs(append(args, "--config", ws.config))
	runErr := Execute()
	closeLog()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), runErr
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		args     func(t *testing.T, ws *workspace) []string
		wantCode int
		wantDB   bool
	}{
		{
			name:     "history on empty store",
			args:     func(t *testing.T, ws *workspace) []string { return []string{"history"} },
			wantCode: exitEmptyHistory,
			wantDB:   true,
		},
		{
			name:     "show unknown run",
			args:     func(t *testing.T, ws *workspace) []string { return []string{"show", "--run-id", "7"} },
			wantCode: exitRunNotFound,
			wantDB:   true,
		},
		{
			name: "check-drift missing policy",
			args: func(t *testing.T, ws *workspace) []string {
				return []string{"check-drift", "--snapshot", ws.snapshot, "--policy", filepath.Join(ws.dir, "none.yml")}
			},
			wantCode: exitFailure,
		},
		{
			name: "check-drift missing snapshot",
			args: func(t *testing.T, ws *workspace) []string {
				return []string{"check-drift", "--snapshot", filepath.Join(ws.dir, "none.json"), "--policy", ws.policy}
			},
			wantCode: exitFailure,
		},
		{
			name: "check-drift malformed snapshot",
			args: func(t *testing.T, ws *workspace) []string {
				bad := filepath.Join(ws.dir, "bad.json")
				require.NoError(t, os.WriteFile(bad, []byte(`{"meta": {}}`), 0644))
				return []string{"check-drift", "--snapshot", bad, "--policy", ws.policy}
			},
			wantCode: exitFailure,
		},
		{
			name: "diff-snapshots malformed before",
			args: func(t *testing.T, ws *workspace) []string {
				bad := filepath.Join(ws.dir, "bad.json")
				require.NoError(t, os.WriteFile(bad, []byte(`not json`), 0644))
				return []string{"diff-snapshots", "--before", bad, "--after", ws.snapshot}
			},
			wantCode: exitFailure,
		},
		{
			name: "diff-snapshots identical inputs",
			args: func(t *testing.T, ws *workspace) []string {
				return []string{"diff-snapshots", "--before", ws.snapshot, "--after", ws.snapshot}
			},
			wantCode: exitOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := newWorkspace(t)

			_, err := runCLI(t, ws, tt.args(t, ws)...)
			assert.Equal(t, tt.wantCode, exitCode(err), "err: %v", err)

			if tt.wantDB {
				assert.FileExists(t, ws.dbPath)
			} else {
				assert.NoFileExists(t, ws.dbPath)
			}
		})
	}
}

func TestCheckDriftInputErrorsAreTyped(t *testing.T) {
	ws := newWorkspace(t)

	_, err := runCLI(t, ws, "check-drift", "--snapshot", ws.snapshot, "--policy", filepath.Join(ws.dir, "none.yml"))
	var pe *policy.ParseError
	assert.True(t, errors.As(err, &pe), "got %v", err)

	_, err = runCLI(t, ws, "check-drift", "--snapshot", filepath.Join(ws.dir, "none.json"), "--policy", ws.policy)
	var se *snapshot.ParseError
	assert.True(t, errors.As(err, &se), "got %v", err)
}

func TestCheckDriftShowHistoryRoundTrip(t *testing.T) {
	ws := newWorkspace(t)

	out, err := runCLI(t, ws, "check-drift", "--snapshot", ws.snapshot, "--policy", ws.policy, "--json")
	require.NoError(t, err)

	var run models.DriftRun
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, uint64(1), run.ID)
	assert.Equal(t, "demo-host", run.Host)
	assert.Equal(t, 60+25, run.RiskScore)
	assert.Equal(t, models.SeverityHigh, run.RiskLevel)
	assert.Equal(t, 12, run.CapturedAt.UTC().Hour())

	out, err = runCLI(t, ws, "show", "--run-id", "1")
	require.NoError(t, err)

	var shown models.EvaluationResult
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, run.Result, shown)
	assert.Equal(t, []int{21, 22, 8080}, shown.ObservedOpenPorts)

	out, err = runCLI(t, ws, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "demo-host")
	assert.Contains(t, out, "HIGH(85)")
	assert.Contains(t, out, "Total: 1 run(s)")

	_, err = runCLI(t, ws, "show", "--run-id", "2")
	assert.Equal(t, exitRunNotFound, exitCode(err))
}
