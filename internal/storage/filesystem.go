package storage

import (
	"os"
	"regexp"
)

var unsafeTargetChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]+`)

// SanitizeTarget replaces characters unsafe for filesystem paths
// Allows alphanumeric, dots, and hyphens. Replaces everything else with underscore.
func SanitizeTarget(target string) string {
	return unsafeTargetChars.ReplaceAllString(target, "_")
}

// EnsureDir creates a directory and all parent directories if they don't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
