package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hakim/driftwatch/internal/diff"
	"github.com/hakim/driftwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *models.DriftRun {
	obs := models.NewObservation("demo-host", time.Date(2025, 12, 26, 12, 0, 0, 0, time.UTC), models.DefaultPorts, []int{21, 22})
	run := models.NewDriftRun(obs, "snapshots/demo.json", &models.EvaluationResult{
		RiskScore: 60,
		RiskLevel: models.SeverityMedium,
		Findings: []models.Finding{{
			RuleCode: models.RuleFlaggedPortOpen,
			Severity: models.SeverityHigh,
			Port:     21,
			Detail:   "Flagged port open: 21",
		}},
		ObservedOpenPorts:    []int{21, 22},
		BaselineAllowedPorts: []int{22},
		BaselineFlaggedPorts: []int{21},
	})
	run.ID = 7
	return run
}

func TestRenderDriftReport(t *testing.T) {
	out := RenderDriftReport(sampleRun())

	assert.Contains(t, out, "**Target:** demo-host")
	assert.Contains(t, out, "**Run ID:** 7")
	assert.Contains(t, out, "- **Level:** MEDIUM")
	assert.Contains(t, out, "| HIGH | flagged_port_open | 21 | Flagged port open: 21 |")
	assert.Contains(t, out, "- **Observed open:** 21, 22")
	assert.Contains(t, out, "**Recorded:** -")
}

func TestRenderDriftReport_NoFindings(t *testing.T) {
	run := sampleRun()
	run.Result.Findings = []models.Finding{}
	run.Result.BaselineFlaggedPorts = []int{}

	out := RenderDriftReport(run)
	assert.Contains(t, out, "No drift detected.")
	assert.Contains(t, out, "- **Flagged:** -")
}

func TestWriteDiffReport(t *testing.T) {
	before := models.NewObservation("demo-host", time.Now(), nil, []int{22, 443, 3389})
	after := models.NewObservation("demo-host", time.Now(), nil, []int{22, 443, 8080})
	result := diff.ComputeDiff(before, after)

	path := filepath.Join(t.TempDir(), "diff.md")
	require.NoError(t, WriteDiffReport(before, after, result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "| 3 | 3 | +1 / -1 |")
	assert.Contains(t, out, "## Opened Ports (+1)\n\n- 8080")
	assert.Contains(t, out, "## Closed Ports (-1)\n\n- 3389")
}

func TestRenderDiffReport_NoChanges(t *testing.T) {
	obs := models.NewObservation("demo-host", time.Now(), nil, []int{22})
	out := RenderDiffReport(obs, obs, diff.ComputeDiff(obs, obs))
	assert.Contains(t, out, "No changes detected.")
	assert.NotContains(t, out, "## Summary")
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "none", formatChange(0, 0))
	assert.Equal(t, "+2", formatChange(2, 0))
	assert.Equal(t, "-1", formatChange(0, 1))
	assert.Equal(t, "+2 / -1", formatChange(2, 1))
}
