// Package diff computes the delta between two port observations.
// The result is a neutral report: no policy, severity or score is involved.
package diff

import (
	"fmt"

	"github.com/hakim/driftwatch/internal/models"
)

// ComputeDiff returns the ports opened and closed between before and after.
// Opened lists ports open in after but not before; Closed the reverse. Both
// are ascending, and Changes lists every OPENED entry before every CLOSED
// entry. All slice fields are non-nil.
func ComputeDiff(before, after *models.Observation) *models.DiffResult {
	prev := models.PortSet(before.OpenPorts())
	curr := models.PortSet(after.OpenPorts())

	dr := &models.DiffResult{
		Opened:  []int{},
		Closed:  []int{},
		Changes: []string{},
	}

	// Opened: in after but not in before
	for _, p := range models.SortedKeys(curr) {
		if !prev[p] {
			dr.Opened = append(dr.Opened, p)
		}
	}

	// Closed: in before but not in after
	for _, p := range models.SortedKeys(prev) {
		if !curr[p] {
			dr.Closed = append(dr.Closed, p)
		}
	}

	for _, p := range dr.Opened {
		dr.Changes = append(dr.Changes, fmt.Sprintf("OPENED port %d", p))
	}
	for _, p := range dr.Closed {
		dr.Changes = append(dr.Changes, fmt.Sprintf("CLOSED port %d", p))
	}

	return dr
}

// SameHost reports whether both observations describe the same target.
// Diffing across hosts is allowed but usually a mistake worth warning about.
func SameHost(before, after *models.Observation) bool {
	return before.Host() == after.Host()
}
