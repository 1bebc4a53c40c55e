// Package capture probes a fixed list of TCP ports on a host and records
// which were reachable as an Observation.
package capture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
)

// DefaultConcurrency caps simultaneous connection attempts
const DefaultConcurrency = 16

// Config controls a single capture run
type Config struct {
	// Ports is the probe set. Empty means models.DefaultPorts.
	Ports []int

	// Concurrency is the maximum number of in-flight probes.
	Concurrency int

	// Prober performs the per-port check. Nil means a TCPProber using Timeout.
	Prober Prober

	// Timeout is handed to the default TCPProber.
	Timeout time.Duration

	// Now stamps the observation. Nil means time.Now.
	Now func() time.Time

	Logger logrus.FieldLogger
}

type probeResult struct {
	port int
	open bool
}

// Capture probes every configured port on host and returns the resulting
// Observation. Unreachable ports are an expected outcome and never surface
// as errors; the only errors are an empty host or an invalid port list.
// With a timeout-bounded prober the whole run takes at most
// timeout × ceil(len(ports)/concurrency).
func Capture(ctx context.Context, host string, cfg Config) (*models.Observation, error) {
	if host == "" {
		return nil, errors.New("capture: host is required")
	}

	ports := cfg.Ports
	if len(ports) == 0 {
		ports = models.DefaultPorts
	}
	for _, p := range ports {
		if !models.ValidPort(p) {
			return nil, fmt.Errorf("capture: invalid port %d", p)
		}
	}

	prober := cfg.Prober
	if prober == nil {
		prober = NewTCPProber(cfg.Timeout)
	}

	workers := cfg.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	capturedAt := now()

	p := pool.NewWithResults[probeResult]().WithMaxGoroutines(workers)
	for _, port := range models.SortedPorts(ports) {
		port := port
		p.Go(func() probeResult {
			open := prober.Probe(ctx, host, port)
			log.WithFields(logrus.Fields{"host": host, "port": port, "open": open}).Debug("probed port")
			return probeResult{port: port, open: open}
		})
	}

	var open []int
	for _, r := range p.Wait() {
		if r.open {
			open = append(open, r.port)
		}
	}

	obs := models.NewObservation(host, capturedAt, ports, open)
	log.WithFields(logrus.Fields{
		"host":   host,
		"probed": len(ports),
		"open":   len(obs.OpenPorts()),
	}).Info("capture complete")

	return obs, nil
}
