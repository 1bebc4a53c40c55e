package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hakim/driftwatch/internal/models"
)

// WriteDiffReport generates a markdown report capturing the delta between two
// snapshots and writes it to outputPath.
func WriteDiffReport(before, after *models.Observation, result *models.DiffResult, outputPath string) error {
	return writeFile(outputPath, RenderDiffReport(before, after, result))
}

// RenderDiffReport returns the markdown body used by WriteDiffReport
func RenderDiffReport(before, after *models.Observation, result *models.DiffResult) string {
	var b strings.Builder

	b.WriteString("# Snapshot Diff Report\n\n")
	b.WriteString(fmt.Sprintf("**Before:** %s @ %s\n", before.Host(), formatTime(before.Meta.CapturedAt)))
	b.WriteString(fmt.Sprintf("**After:** %s @ %s\n\n", after.Host(), formatTime(after.Meta.CapturedAt)))

	// If there are zero changes, short-circuit.
	if result.Empty() {
		b.WriteString("No changes detected.\n")
		return b.String()
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Previous | Current | Change |\n")
	b.WriteString("|----------|---------|--------|\n")
	b.WriteString(fmt.Sprintf("| %d | %d | %s |\n\n",
		len(before.OpenPorts()), len(after.OpenPorts()), formatChange(len(result.Opened), len(result.Closed))))

	writePortSection(&b, "Opened Ports", "+", result.Opened)
	writePortSection(&b, "Closed Ports", "-", result.Closed)

	return b.String()
}

// writePortSection renders one list of port changes. Skipped when empty.
func writePortSection(b *strings.Builder, title, sign string, ports []int) {
	if len(ports) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("## %s (%s%d)\n\n", title, sign, len(ports)))
	for _, p := range ports {
		b.WriteString(fmt.Sprintf("- %d\n", p))
	}
	b.WriteString("\n")
}

// formatChange returns a human-readable change string such as "+3 / -1".
// When there are no additions and no removals it returns "none".
func formatChange(added, removed int) string {
	if added == 0 && removed == 0 {
		return "none"
	}
	parts := make([]string, 0, 2)
	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d", added))
	}
	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d", removed))
	}
	return strings.Join(parts, " / ")
}

// formatPorts joins ports with commas, or "-" when empty
func formatPorts(ports []int) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}

func writeFile(outputPath, content string) error {
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing report to %s: %w", outputPath, err)
	}
	return nil
}
