// Package snapshot reads and writes observation files.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/hakim/driftwatch/internal/storage"
	"github.com/xeipuuv/gojsonschema"
)

// ParseError reports a snapshot file that is missing, unreadable or does
// not match the observation format.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("snapshot: %v", e.Err)
	}
	return fmt.Sprintf("snapshot %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(observationSchema))
	})
	return schema, schemaErr
}

// Load reads and validates the observation file at path
func Load(path string) (*models.Observation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	obs, err := Decode(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return obs, nil
}

// Decode validates data against the observation schema and decodes it.
// Missing required fields are rejected rather than defaulted.
func Decode(data []byte) (*models.Observation, error) {
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling observation schema: %w", err)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &ParseError{Err: fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))}
	}

	var obs models.Observation
	if err := json.Unmarshal(data, &obs); err != nil {
		return nil, &ParseError{Err: err}
	}

	var errs []error
	for _, p := range obs.Meta.PortList {
		if !models.ValidPort(p) {
			errs = append(errs, fmt.Errorf("meta.port_list: invalid port %d", p))
		}
	}
	for _, p := range obs.Observed.OpenPorts {
		if !models.ValidPort(p) {
			errs = append(errs, fmt.Errorf("observed.open_ports: invalid port %d", p))
		}
	}
	if len(errs) > 0 {
		return nil, &ParseError{Err: errors.Join(errs...)}
	}

	obs.Observed.OpenPorts = models.SortedPorts(obs.Observed.OpenPorts)
	return &obs, nil
}

// FileName returns the conventional file name for obs:
// snapshot_{host}_{YYYYMMDDTHHMMSSZ}.json
func FileName(obs *models.Observation) string {
	ts := obs.Meta.CapturedAt.UTC().Format("20060102T150405Z")
	return fmt.Sprintf("snapshot_%s_%s.json", storage.SanitizeTarget(obs.Meta.Host), ts)
}

// Save writes obs as indented JSON into dir and returns the file path
func Save(dir string, obs *models.Observation) (string, error) {
	if err := storage.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(obs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	path := filepath.Join(dir, FileName(obs))
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}
