package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hakim/driftwatch/internal/models"
)

// Preset is a named probe set for capture.
type Preset struct {
	Name        string
	Description string
	Ports       []int
}

// builtinPresets is the registry of all known presets.
var builtinPresets = map[string]Preset{
	"default": {
		Name:        "default",
		Description: "Common services plus classic lateral-movement ports",
		Ports:       models.DefaultPorts,
	},
	"web": {
		Name:        "web",
		Description: "HTTP(S) and common application server ports",
		Ports:       []int{80, 443, 8000, 8008, 8080, 8443, 8888, 9000, 9443},
	},
	"database": {
		Name:        "database",
		Description: "Database and cache listeners",
		Ports:       []int{1433, 1521, 3306, 5432, 6379, 9042, 9200, 11211, 27017},
	},
	"windows": {
		Name:        "windows",
		Description: "Windows file sharing, RPC and management",
		Ports:       []int{135, 139, 445, 3389, 5985, 5986},
	},
	"remote-access": {
		Name:        "remote-access",
		Description: "Remote shells and desktops",
		Ports:       []int{22, 23, 2222, 3389, 5900, 5901},
	},
}

// BuiltinPresets returns the available presets sorted by name.
func BuiltinPresets() []Preset {
	out := make([]Preset, 0, len(builtinPresets))
	for _, p := range builtinPresets {
		out = append(out, clonePreset(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetPreset returns a preset by name, or an error if not found.
func GetPreset(name string) (*Preset, error) {
	p, ok := builtinPresets[name]
	if !ok {
		names := make([]string, 0, len(builtinPresets))
		for n := range builtinPresets {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(names, ", "))
	}
	cp := clonePreset(p)
	return &cp, nil
}

// clonePreset copies the port slice so callers cannot mutate the registry.
func clonePreset(p Preset) Preset {
	ports := make([]int, len(p.Ports))
	copy(ports, p.Ports)
	p.Ports = ports
	return p
}
