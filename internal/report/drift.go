package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/hakim/driftwatch/internal/models"
)

// WriteDriftReport generates a markdown report for a persisted drift run
// and writes it to outputPath.
func WriteDriftReport(run *models.DriftRun, outputPath string) error {
	return writeFile(outputPath, RenderDriftReport(run))
}

// RenderDriftReport returns the markdown body used by WriteDriftReport
func RenderDriftReport(run *models.DriftRun) string {
	var b strings.Builder
	r := run.Result

	// Header
	b.WriteString("# Drift Check Report\n\n")
	b.WriteString(fmt.Sprintf("**Target:** %s\n", run.Host))
	b.WriteString(fmt.Sprintf("**Captured:** %s\n", formatTime(run.CapturedAt)))
	b.WriteString(fmt.Sprintf("**Run ID:** %d | **Recorded:** %s\n", run.ID, formatTime(run.CreatedAt)))
	b.WriteString(fmt.Sprintf("**Snapshot:** %s\n\n", run.SnapshotPath))

	b.WriteString("## Risk\n\n")
	b.WriteString(fmt.Sprintf("- **Level:** %s\n", r.RiskLevel))
	b.WriteString(fmt.Sprintf("- **Score:** %d\n\n", r.RiskScore))

	b.WriteString("## Findings\n\n")
	if len(r.Findings) > 0 {
		b.WriteString("| Severity | Rule | Port | Detail |\n")
		b.WriteString("|----------|------|------|--------|\n")
		for _, f := range r.Findings {
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n", f.Severity, f.RuleCode, f.Port, f.Detail))
		}
	} else {
		b.WriteString("No drift detected.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Baseline\n\n")
	b.WriteString(fmt.Sprintf("- **Observed open:** %s\n", formatPorts(r.ObservedOpenPorts)))
	b.WriteString(fmt.Sprintf("- **Allowed:** %s\n", formatPorts(r.BaselineAllowedPorts)))
	b.WriteString(fmt.Sprintf("- **Flagged:** %s\n", formatPorts(r.BaselineFlaggedPorts)))

	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
