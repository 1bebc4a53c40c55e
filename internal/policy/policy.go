// Package policy loads the declarative baseline that drift evaluation
// compares observations against.
package policy

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hakim/driftwatch/internal/models"
	"gopkg.in/yaml.v3"
)

// ParseError reports a policy document that could not be read or decoded.
// No partial policy is ever returned alongside it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("policy: %v", e.Err)
	}
	return fmt.Sprintf("policy %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// document mirrors the on-disk YAML/JSON layout
type document struct {
	Baseline struct {
		AllowedPortsCommon []int `yaml:"allowed_ports_common"`
		FlaggedPorts       []int `yaml:"flagged_ports"`
	} `yaml:"baseline"`
	Rules struct {
		Severity map[string]string `yaml:"severity"`
	} `yaml:"rules"`
}

// Policy is the parsed baseline. It is immutable after loading; use the
// accessor methods rather than touching the sets directly.
type Policy struct {
	allowed  map[int]bool
	flagged  map[int]bool
	severity map[models.RuleCode]models.Severity
}

// New builds a Policy from already-typed values. Used by tests and by
// callers that assemble a baseline programmatically.
func New(allowed, flagged []int, severity map[models.RuleCode]models.Severity) *Policy {
	sev := make(map[models.RuleCode]models.Severity, len(severity))
	for k, v := range severity {
		sev[k] = v
	}
	return &Policy{
		allowed:  models.PortSet(allowed),
		flagged:  models.PortSet(flagged),
		severity: sev,
	}
}

// Load reads and parses the policy file at path
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	p, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return p, nil
}

// Parse decodes a policy document. YAML and JSON are both accepted.
// Missing port lists default to empty and missing or null severities to
// LOW. Severity keys must name a known rule code.
func Parse(data []byte) (*Policy, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Err: errors.New("empty policy document")}
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decoding: %w", err)}
	}

	var errs []error
	for _, p := range doc.Baseline.AllowedPortsCommon {
		if !models.ValidPort(p) {
			errs = append(errs, fmt.Errorf("baseline.allowed_ports_common: invalid port %d", p))
		}
	}
	for _, p := range doc.Baseline.FlaggedPorts {
		if !models.ValidPort(p) {
			errs = append(errs, fmt.Errorf("baseline.flagged_ports: invalid port %d", p))
		}
	}

	known := make(map[models.RuleCode]bool, len(models.RuleCodes()))
	for _, code := range models.RuleCodes() {
		known[code] = true
	}

	severity := make(map[models.RuleCode]models.Severity, len(doc.Rules.Severity))
	for code, raw := range doc.Rules.Severity {
		if !known[models.RuleCode(code)] {
			errs = append(errs, fmt.Errorf("rules.severity.%s: unknown rule code", code))
			continue
		}
		// A key with no value is treated like a missing one.
		if strings.TrimSpace(raw) == "" {
			continue
		}
		sev, err := models.ParseSeverity(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules.severity.%s: %w", code, err))
			continue
		}
		severity[models.RuleCode(code)] = sev
	}

	if len(errs) > 0 {
		return nil, &ParseError{Err: errors.Join(errs...)}
	}

	return New(doc.Baseline.AllowedPortsCommon, doc.Baseline.FlaggedPorts, severity), nil
}

// SeverityFor returns the configured severity for a rule code, LOW if unset
func (p *Policy) SeverityFor(code models.RuleCode) models.Severity {
	if sev, ok := p.severity[code]; ok {
		return sev
	}
	return models.SeverityLow
}

// IsAllowed reports whether port is listed as allowed. Flagged status is
// not considered here.
func (p *Policy) IsAllowed(port int) bool { return p.allowed[port] }

// IsFlagged reports whether port is explicitly distrusted
func (p *Policy) IsFlagged(port int) bool { return p.flagged[port] }

// AllowedPorts returns the allowed set in ascending order
func (p *Policy) AllowedPorts() []int { return models.SortedKeys(p.allowed) }

// FlaggedPorts returns the flagged set in ascending order
func (p *Policy) FlaggedPorts() []int { return models.SortedKeys(p.flagged) }
