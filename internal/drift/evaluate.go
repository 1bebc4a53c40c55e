// Package drift turns an observation and a baseline policy into scored
// findings and an aggregate risk level.
package drift

import (
	"fmt"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/hakim/driftwatch/internal/policy"
)

// Score increments per finding. Severity collapses to two tiers per rule.
const (
	flaggedHighScore      = 60
	flaggedOtherScore     = 35
	unexpectedMediumScore = 25
	unexpectedOtherScore  = 10
)

// Risk level thresholds on the summed score.
const (
	HighRiskThreshold   = 80
	MediumRiskThreshold = 35
)

// Evaluate compares the open ports of obs against pol.
//
// Findings come out in two passes: every flagged port that is open, then
// every open port that is neither allowed nor flagged. Each pass is ordered
// by ascending port. Allowed ports never produce findings, whether open or
// not, and a port that is both allowed and flagged counts as flagged.
func Evaluate(obs *models.Observation, pol *policy.Policy) *models.EvaluationResult {
	observed := models.SortedPorts(obs.OpenPorts())

	result := &models.EvaluationResult{
		Findings:             []models.Finding{},
		ObservedOpenPorts:    observed,
		BaselineAllowedPorts: pol.AllowedPorts(),
		BaselineFlaggedPorts: pol.FlaggedPorts(),
	}

	flaggedSev := pol.SeverityFor(models.RuleFlaggedPortOpen)
	for _, p := range observed {
		if !pol.IsFlagged(p) {
			continue
		}
		result.Findings = append(result.Findings, models.Finding{
			RuleCode: models.RuleFlaggedPortOpen,
			Severity: flaggedSev,
			Port:     p,
			Detail:   fmt.Sprintf("Flagged port open: %d", p),
		})
		result.RiskScore += flaggedScore(flaggedSev)
	}

	unexpectedSev := pol.SeverityFor(models.RuleUnexpectedPortOpen)
	for _, p := range observed {
		if pol.IsFlagged(p) || pol.IsAllowed(p) {
			continue
		}
		result.Findings = append(result.Findings, models.Finding{
			RuleCode: models.RuleUnexpectedPortOpen,
			Severity: unexpectedSev,
			Port:     p,
			Detail:   fmt.Sprintf("Unexpected port open: %d", p),
		})
		result.RiskScore += unexpectedScore(unexpectedSev)
	}

	result.RiskLevel = RiskLevel(result.RiskScore)
	return result
}

// RiskLevel maps a score onto LOW/MEDIUM/HIGH
func RiskLevel(score int) models.Severity {
	switch {
	case score >= HighRiskThreshold:
		return models.SeverityHigh
	case score >= MediumRiskThreshold:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func flaggedScore(sev models.Severity) int {
	if sev == models.SeverityHigh {
		return flaggedHighScore
	}
	return flaggedOtherScore
}

func unexpectedScore(sev models.Severity) int {
	if sev == models.SeverityMedium {
		return unexpectedMediumScore
	}
	return unexpectedOtherScore
}
