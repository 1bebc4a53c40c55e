package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeConfig_ValidateTarget(t *testing.T) {
	scope := &ScopeConfig{
		AllowedHosts: []string{"*.lab.example.com", "gateway.example.com", "192.0.2.10"},
		AllowedCIDRs: []string{"10.0.0.0/8", "not-a-cidr"},
	}

	tests := []struct {
		target  string
		allowed bool
	}{
		{"web01.lab.example.com", true},
		{"WEB01.LAB.example.com", true},
		{"a.b.lab.example.com", false},
		{"lab.example.com", false},
		{"gateway.example.com", true},
		{"other.example.com", false},
		{"10.1.2.3", true},
		{"192.0.2.10", true},
		{"192.0.2.11", false},
		{"172.16.0.1", false},
	}

	for _, tt := range tests {
		err := scope.ValidateTarget(tt.target)
		if tt.allowed {
			assert.NoError(t, err, tt.target)
		} else {
			assert.Error(t, err, tt.target)
		}
	}
}

func TestScopeConfig_EmptyAllowsAll(t *testing.T) {
	var nilScope *ScopeConfig
	assert.NoError(t, nilScope.ValidateTarget("anything"))
	assert.NoError(t, (&ScopeConfig{}).ValidateTarget("10.0.0.1"))
}

func TestScopeConfig_Validate(t *testing.T) {
	assert.NoError(t, (&ScopeConfig{AllowedCIDRs: []string{"10.0.0.0/8"}}).Validate())
	assert.Error(t, (&ScopeConfig{AllowedCIDRs: []string{"10.0.0.0/33"}}).Validate())
}

func TestPresets(t *testing.T) {
	presets := BuiltinPresets()
	assert.NotEmpty(t, presets)
	for i := 1; i < len(presets); i++ {
		assert.Less(t, presets[i-1].Name, presets[i].Name)
	}

	p, err := GetPreset("web")
	assert.NoError(t, err)
	assert.Contains(t, p.Ports, 443)

	// Mutating a returned preset must not leak into the registry.
	p.Ports[0] = 1
	again, _ := GetPreset("web")
	assert.NotEqual(t, 1, again.Ports[0])

	_, err = GetPreset("nope")
	assert.Error(t, err)
}
