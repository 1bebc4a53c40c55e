// Package metrics exports drift evaluation results as prometheus gauges in
// the node_exporter textfile format, so a cron-driven check-drift can feed
// an existing monitoring stack without running a server.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hakim/driftwatch/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gauges for one evaluation
type Metrics struct {
	registry   *prometheus.Registry
	riskScore  *prometheus.GaugeVec
	riskLevel  *prometheus.GaugeVec
	findings   *prometheus.GaugeVec
	openPorts  *prometheus.GaugeVec
	lastRunID  *prometheus.GaugeVec
	capturedAt *prometheus.GaugeVec
}

// New creates a Metrics instance on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		riskScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftwatch_risk_score",
			Help: "Risk score of the latest drift evaluation",
		}, []string{"host"}),
		riskLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftwatch_risk_level",
			Help: "Risk level of the latest drift evaluation (1 for the active level)",
		}, []string{"host", "level"}),
		findings: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftwatch_findings",
			Help: "Findings in the latest drift evaluation by rule code",
		}, []string{"host", "rule_code"}),
		openPorts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftwatch_open_ports",
			Help: "Open ports observed in the evaluated snapshot",
		}, []string{"host"}),
		lastRunID: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftwatch_last_run_id",
			Help: "History store ID of the latest drift run",
		}, []string{"host"}),
		capturedAt: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "driftwatch_snapshot_captured_timestamp_seconds",
			Help: "Capture time of the evaluated snapshot",
		}, []string{"host"}),
	}

	m.registry.MustRegister(m.riskScore, m.riskLevel, m.findings, m.openPorts, m.lastRunID, m.capturedAt)
	return m
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRun sets every gauge from a persisted drift run
func (m *Metrics) RecordRun(run *models.DriftRun) {
	host := run.Host

	m.riskScore.WithLabelValues(host).Set(float64(run.Result.RiskScore))
	for _, lvl := range []models.Severity{models.SeverityLow, models.SeverityMedium, models.SeverityHigh} {
		v := 0.0
		if lvl == run.Result.RiskLevel {
			v = 1
		}
		m.riskLevel.WithLabelValues(host, string(lvl)).Set(v)
	}

	counts := make(map[models.RuleCode]int, len(models.RuleCodes()))
	for _, code := range models.RuleCodes() {
		counts[code] = 0
	}
	for _, f := range run.Result.Findings {
		counts[f.RuleCode]++
	}
	for code, n := range counts {
		m.findings.WithLabelValues(host, string(code)).Set(float64(n))
	}

	m.openPorts.WithLabelValues(host).Set(float64(len(run.Result.ObservedOpenPorts)))
	m.lastRunID.WithLabelValues(host).Set(float64(run.ID))
	m.capturedAt.WithLabelValues(host).Set(float64(run.CapturedAt.Unix()))
}

// WriteTextfile writes the gathered metrics to path atomically
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
