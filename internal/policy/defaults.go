package policy

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDocument is the starter baseline written by `driftwatch init`.
const DefaultDocument = `# driftwatch baseline policy
baseline:
  # ports that may be open on this host
  allowed_ports_common: [22, 80, 443]
  # ports that should never be reachable
  flagged_ports: [21, 23, 135, 139, 445, 3389]
rules:
  severity:
    flagged_port_open: HIGH
    unexpected_port_open: MEDIUM
`

// WriteDefault writes DefaultDocument to path, creating parent directories
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating policy directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultDocument), 0644); err != nil {
		return fmt.Errorf("writing policy file: %w", err)
	}
	return nil
}
