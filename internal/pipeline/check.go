package pipeline

import (
	"fmt"

	"github.com/hakim/driftwatch/internal/drift"
	"github.com/hakim/driftwatch/internal/models"
	"github.com/hakim/driftwatch/internal/policy"
	"github.com/hakim/driftwatch/internal/snapshot"
	"github.com/sirupsen/logrus"
)

// RunStore is the minimal history contract required by RunCheck.
// Using an interface keeps the package testable without a real database.
type RunStore interface {
	InsertRun(run *models.DriftRun) (uint64, error)
}

// CheckConfig controls a single check-drift run
type CheckConfig struct {
	// SnapshotPath is the observation file to evaluate. Required.
	SnapshotPath string

	// PolicyPath is the baseline policy document. Required.
	PolicyPath string

	// Notify, when non-nil, receives the persisted run. Failures are logged
	// and never fail the check.
	Notify *NotifyConfig

	Logger logrus.FieldLogger
}

// CheckResult summarises a completed check-drift run
type CheckResult struct {
	Observation *models.Observation
	Run         *models.DriftRun
}

// CheckInputs holds the parsed documents for one check
type CheckInputs struct {
	Policy      *policy.Policy
	Observation *models.Observation
}

// LoadInputs parses the policy and snapshot named by cfg. It never touches
// the history store, so callers can open the store only once both parse.
func LoadInputs(cfg CheckConfig) (*CheckInputs, error) {
	if cfg.SnapshotPath == "" {
		return nil, fmt.Errorf("check: SnapshotPath is required")
	}
	if cfg.PolicyPath == "" {
		return nil, fmt.Errorf("check: PolicyPath is required")
	}

	pol, err := policy.Load(cfg.PolicyPath)
	if err != nil {
		return nil, err
	}

	obs, err := snapshot.Load(cfg.SnapshotPath)
	if err != nil {
		return nil, err
	}

	return &CheckInputs{Policy: pol, Observation: obs}, nil
}

// RunCheck loads the observation and policy, evaluates drift and persists
// the run. Nothing is persisted unless both inputs parse; a failed insert
// fails the whole check.
func RunCheck(cfg CheckConfig, store RunStore) (*CheckResult, error) {
	if store == nil {
		return nil, fmt.Errorf("check: store must not be nil")
	}

	in, err := LoadInputs(cfg)
	if err != nil {
		return nil, err
	}
	return RecordCheck(cfg, in, store)
}

// RecordCheck evaluates already loaded inputs, saves the run and sends the
// optional notification.
func RecordCheck(cfg CheckConfig, in *CheckInputs, store RunStore) (*CheckResult, error) {
	if store == nil {
		return nil, fmt.Errorf("check: store must not be nil")
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	obs := in.Observation
	result := drift.Evaluate(obs, in.Policy)
	log.WithFields(logrus.Fields{
		"host":       obs.Host(),
		"risk_level": result.RiskLevel,
		"risk_score": result.RiskScore,
		"findings":   len(result.Findings),
	}).Debug("evaluated snapshot")

	run := models.NewDriftRun(obs, cfg.SnapshotPath, result)
	if _, err := store.InsertRun(run); err != nil {
		return nil, fmt.Errorf("saving drift run: %w", err)
	}
	log.WithFields(logrus.Fields{"run_id": run.ID, "host": run.Host}).Info("drift run saved")

	if err := cfg.Notify.SendRun(run); err != nil {
		log.WithError(err).Warn("webhook notification failed")
	}

	return &CheckResult{Observation: obs, Run: run}, nil
}
