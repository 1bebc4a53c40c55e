package models

import "time"

// Finding is one policy violation detected during evaluation
type Finding struct {
	RuleCode RuleCode `json:"rule_code"`
	Severity Severity `json:"severity"`
	Port     int      `json:"port"`
	Detail   string   `json:"detail"`
}

// EvaluationResult is the outcome of evaluating one Observation against one
// Policy. Slice fields are never nil so the JSON form always carries arrays.
type EvaluationResult struct {
	RiskScore            int       `json:"risk_score"`
	RiskLevel            Severity  `json:"risk_level"`
	Findings             []Finding `json:"findings"`
	ObservedOpenPorts    []int     `json:"observed_open_ports"`
	BaselineAllowedPorts []int     `json:"baseline_allowed_ports"`
	BaselineFlaggedPorts []int     `json:"baseline_flagged_ports"`
}

// DriftRunSummary is the listing view of a persisted run
type DriftRunSummary struct {
	ID           uint64    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Host         string    `json:"host"`
	CapturedAt   time.Time `json:"captured_at"`
	SnapshotID   string    `json:"snapshot_id,omitempty"`
	RiskLevel    Severity  `json:"risk_level"`
	RiskScore    int       `json:"risk_score"`
	SnapshotPath string    `json:"snapshot_path"`
}

// DriftRun is the persisted record of one check-drift invocation.
// ID and CreatedAt are assigned by the history store on insert.
type DriftRun struct {
	DriftRunSummary
	Result EvaluationResult `json:"result"`
}

// NewDriftRun prepares an unsaved run from an observation and its evaluation
func NewDriftRun(obs *Observation, snapshotPath string, result *EvaluationResult) *DriftRun {
	return &DriftRun{
		DriftRunSummary: DriftRunSummary{
			Host:         obs.Meta.Host,
			CapturedAt:   obs.Meta.CapturedAt,
			SnapshotID:   obs.Meta.SnapshotID,
			RiskLevel:    result.RiskLevel,
			RiskScore:    result.RiskScore,
			SnapshotPath: snapshotPath,
		},
		Result: *result,
	}
}
