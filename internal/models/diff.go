package models

// DiffResult is the opened/closed delta between two observations.
// It is never persisted.
type DiffResult struct {
	Opened  []int    `json:"opened"`
	Closed  []int    `json:"closed"`
	Changes []string `json:"changes"`
}

// Empty reports whether the two observations had identical open ports
func (d *DiffResult) Empty() bool {
	return len(d.Opened) == 0 && len(d.Closed) == 0
}
