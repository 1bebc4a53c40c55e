package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultPorts is the probe set used when the caller does not supply one.
var DefaultPorts = []int{21, 22, 23, 25, 53, 80, 110, 135, 139, 143, 443, 445, 3389, 1433, 3306}

// ObservationMeta describes when and where an observation was captured
type ObservationMeta struct {
	SnapshotID string    `json:"snapshot_id,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
	Host       string    `json:"host"`
	PortList   []int     `json:"port_list"`
}

// localTimeLayout is ISO-8601 without a zone offset. Such timestamps are
// read as UTC.
const localTimeLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp accepts RFC 3339 and zone-less ISO-8601 date-times
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(localTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", s)
	}
	return t, nil
}

// UnmarshalJSON decodes captured_at with ParseTimestamp
func (m *ObservationMeta) UnmarshalJSON(data []byte) error {
	type plain ObservationMeta
	aux := struct {
		*plain
		CapturedAt string `json:"captured_at"`
	}{plain: (*plain)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t, err := ParseTimestamp(aux.CapturedAt)
	if err != nil {
		return fmt.Errorf("captured_at: %w", err)
	}
	m.CapturedAt = t
	return nil
}

// ObservedPorts holds the probe outcome. OpenPorts is sorted ascending
// and free of duplicates.
type ObservedPorts struct {
	OpenPorts []int `json:"open_ports"`
}

// Observation is a point-in-time record of which ports on a host were
// reachable. The JSON shape is the snapshot file format exchanged between
// capture, check-drift and diff-snapshots.
type Observation struct {
	Meta     ObservationMeta `json:"meta"`
	Observed ObservedPorts   `json:"observed"`
}

// NewObservation builds an Observation with a fresh snapshot ID. openPorts
// is copied, de-duplicated and sorted.
func NewObservation(host string, capturedAt time.Time, portList, openPorts []int) *Observation {
	pl := make([]int, len(portList))
	copy(pl, portList)

	return &Observation{
		Meta: ObservationMeta{
			SnapshotID: uuid.New().String(),
			CapturedAt: capturedAt.UTC(),
			Host:       host,
			PortList:   pl,
		},
		Observed: ObservedPorts{
			OpenPorts: SortedPorts(openPorts),
		},
	}
}

// Host returns the probed host
func (o *Observation) Host() string { return o.Meta.Host }

// OpenPorts returns the sorted set of reachable ports
func (o *Observation) OpenPorts() []int { return o.Observed.OpenPorts }

// PortSet converts a port slice into a lookup map
func PortSet(ports []int) map[int]bool {
	m := make(map[int]bool, len(ports))
	for _, p := range ports {
		m[p] = true
	}
	return m
}

// SortedPorts returns a new ascending, duplicate-free copy of ports.
// The result is never nil.
func SortedPorts(ports []int) []int {
	seen := make(map[int]bool, len(ports))
	out := make([]int, 0, len(ports))
	for _, p := range ports {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// SortedKeys returns the members of a port set in ascending order
func SortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for p, ok := range set {
		if ok {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
