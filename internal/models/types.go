package models

import (
	"fmt"
	"strings"
)

// Severity is the severity of a finding and also the categorical risk level
// of an evaluation.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// ParseSeverity normalizes s (case-insensitive, surrounding space ignored)
// into a Severity. Unknown values are rejected.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToUpper(strings.TrimSpace(s))) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	default:
		return "", fmt.Errorf("unknown severity %q (want LOW, MEDIUM or HIGH)", s)
	}
}

// RuleCode identifies which evaluation rule produced a finding
type RuleCode string

const (
	RuleFlaggedPortOpen    RuleCode = "flagged_port_open"
	RuleUnexpectedPortOpen RuleCode = "unexpected_port_open"
)

// RuleCodes returns every rule code the evaluator knows about, in pass order.
func RuleCodes() []RuleCode {
	return []RuleCode{RuleFlaggedPortOpen, RuleUnexpectedPortOpen}
}

// MinPort and MaxPort bound valid TCP port numbers.
const (
	MinPort = 1
	MaxPort = 65535
)

// ValidPort reports whether p is a usable TCP port number
func ValidPort(p int) bool {
	return p >= MinPort && p <= MaxPort
}
