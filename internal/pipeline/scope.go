package pipeline

import (
	"fmt"
	"net"
	"strings"
)

// ScopeConfig defines which targets capture is authorized to probe.
// An empty ScopeConfig (no rules) allows any target.
type ScopeConfig struct {
	// AllowedHosts is a list of host patterns the target may match.
	// Wildcard prefix ("*.example.com") matches any single-label subdomain.
	// Exact entry ("example.com", "10.0.0.5") matches only that literal value.
	AllowedHosts []string

	// AllowedCIDRs is a list of CIDR ranges an IP target may fall within.
	AllowedCIDRs []string
}

// Empty reports whether no scope rules are configured
func (s *ScopeConfig) Empty() bool {
	return s == nil || (len(s.AllowedHosts) == 0 && len(s.AllowedCIDRs) == 0)
}

// ValidateTarget checks whether target is within scope.
// Returns nil if allowed, error if out of scope. IP literals are checked
// against AllowedCIDRs and exact AllowedHosts entries; names only against
// AllowedHosts. Names are not resolved.
func (s *ScopeConfig) ValidateTarget(target string) error {
	if s.Empty() {
		return nil
	}

	for _, pattern := range s.AllowedHosts {
		if hostMatches(target, pattern) {
			return nil
		}
	}

	if ip := net.ParseIP(target); ip != nil {
		for _, cidr := range s.AllowedCIDRs {
			_, network, err := net.ParseCIDR(cidr)
			if err != nil {
				continue
			}
			if network.Contains(ip) {
				return nil
			}
		}
	}

	return fmt.Errorf("target %q is outside allowed scope (hosts: %s; cidrs: %s)",
		target, listOrNone(s.AllowedHosts), listOrNone(s.AllowedCIDRs))
}

// Validate checks that every configured CIDR parses
func (s *ScopeConfig) Validate() error {
	if s == nil {
		return nil
	}
	for _, cidr := range s.AllowedCIDRs {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("scope: invalid CIDR %q: %w", cidr, err)
		}
	}
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// hostMatches returns true when target satisfies the scope pattern.
//
//   - "*.example.com" matches "foo.example.com" but not "example.com" or
//     "foo.bar.example.com" (single wildcard label only).
//   - "example.com" matches only the exact string "example.com".
//   - Comparison is case-insensitive.
func hostMatches(target, pattern string) bool {
	target = strings.ToLower(target)
	pattern = strings.ToLower(pattern)

	if !strings.HasPrefix(pattern, "*.") {
		return target == pattern
	}

	suffix := pattern[2:]
	if !strings.HasSuffix(target, "."+suffix) {
		return false
	}

	// The part before the suffix must be a single label (no dots).
	label := target[:len(target)-len(suffix)-1]
	return len(label) > 0 && !strings.Contains(label, ".")
}
