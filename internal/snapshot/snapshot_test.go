package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSnapshot = `{
  "meta": {
    "captured_at": "2025-12-26T12:00:00Z",
    "host": "demo-host",
    "port_list": [21, 22, 23, 443]
  },
  "observed": {"open_ports": [443, 21, 22, 23, 22]}
}`

func TestDecode(t *testing.T) {
	obs, err := Decode([]byte(validSnapshot))
	require.NoError(t, err)

	assert.Equal(t, "demo-host", obs.Host())
	assert.Equal(t, time.Date(2025, 12, 26, 12, 0, 0, 0, time.UTC), obs.Meta.CapturedAt.UTC())
	assert.Equal(t, []int{21, 22, 23, 443}, obs.Meta.PortList)
	assert.Equal(t, []int{21, 22, 23, 443}, obs.OpenPorts())
	assert.Empty(t, obs.Meta.SnapshotID)
}

func TestDecode_PythonIsoformat(t *testing.T) {
	doc := `{"meta": {"captured_at": "2025-12-26T12:00:00.123456+00:00", "host": "h", "port_list": []},
	         "observed": {"open_ports": []}}`
	obs, err := Decode([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 123456000, obs.Meta.CapturedAt.Nanosecond())
	assert.Equal(t, []int{}, obs.OpenPorts())
}

func TestDecode_CapturedAtFormats(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"utc designator", "2025-12-26T12:00:00Z", time.Date(2025, 12, 26, 12, 0, 0, 0, time.UTC)},
		{"offset", "2025-12-26T14:00:00+02:00", time.Date(2025, 12, 26, 12, 0, 0, 0, time.UTC)},
		{"no zone", "2025-12-26T12:00:00", time.Date(2025, 12, 26, 12, 0, 0, 0, time.UTC)},
		{"no zone with fraction", "2025-12-26T12:00:00.5", time.Date(2025, 12, 26, 12, 0, 0, 500000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"meta": {"captured_at": "` + tt.raw + `", "host": "h", "port_list": []}, "observed": {"open_ports": [22]}}`
			obs, err := Decode([]byte(doc))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(obs.Meta.CapturedAt), "got %s", obs.Meta.CapturedAt)
			assert.Equal(t, []int{22}, obs.OpenPorts())
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"meta":`},
		{"missing observed", `{"meta": {"captured_at": "2025-12-26T12:00:00Z", "host": "h", "port_list": []}}`},
		{"missing open_ports", `{"meta": {"captured_at": "2025-12-26T12:00:00Z", "host": "h", "port_list": []}, "observed": {}}`},
		{"missing host", `{"meta": {"captured_at": "2025-12-26T12:00:00Z", "port_list": []}, "observed": {"open_ports": []}}`},
		{"empty host", `{"meta": {"captured_at": "2025-12-26T12:00:00Z", "host": "", "port_list": []}, "observed": {"open_ports": []}}`},
		{"missing captured_at", `{"meta": {"host": "h", "port_list": []}, "observed": {"open_ports": []}}`},
		{"bad timestamp", `{"meta": {"captured_at": "yesterday", "host": "h", "port_list": []}, "observed": {"open_ports": []}}`},
		{"string port", `{"meta": {"captured_at": "2025-12-26T12:00:00Z", "host": "h", "port_list": []}, "observed": {"open_ports": ["22"]}}`},
		{"port out of range", `{"meta": {"captured_at": "2025-12-26T12:00:00Z", "host": "h", "port_list": [99999]}, "observed": {"open_ports": []}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, err := Decode([]byte(tt.doc))
			assert.Nil(t, obs)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %v", err)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	at := time.Date(2025, 12, 26, 12, 30, 45, 0, time.UTC)
	obs := models.NewObservation("10.0.0.5", at, models.DefaultPorts, []int{443, 22})

	path, err := Save(dir, obs)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "snapshot_10.0.0.5_20251226T123045Z.json"), path)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, obs.Meta.SnapshotID, loaded.Meta.SnapshotID)
	assert.Equal(t, obs.Meta.Host, loaded.Meta.Host)
	assert.True(t, obs.Meta.CapturedAt.Equal(loaded.Meta.CapturedAt))
	assert.Equal(t, obs.Meta.PortList, loaded.Meta.PortList)
	assert.Equal(t, []int{22, 443}, loaded.OpenPorts())
}

func TestLoad_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.json")
	_, err := Load(path)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, path, pe.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileName_SanitizesHost(t *testing.T) {
	obs := models.NewObservation("fe80::1%eth0", time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), nil, nil)
	assert.Equal(t, "snapshot_fe80_1_eth0_20250102T030405Z.json", FileName(obs))
}
