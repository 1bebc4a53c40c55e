package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hakim/driftwatch/internal/models"
)

// NotifyConfig configures where to send run notifications.
type NotifyConfig struct {
	WebhookURL string // if empty, no notifications

	// Client overrides the default 10s-timeout client.
	Client *http.Client
}

// runPayload is the JSON body posted to the webhook endpoint.
type runPayload struct {
	RunID      uint64           `json:"run_id"`
	Host       string           `json:"host"`
	CapturedAt time.Time        `json:"captured_at"`
	CreatedAt  time.Time        `json:"created_at"`
	RiskLevel  models.Severity  `json:"risk_level"`
	RiskScore  int              `json:"risk_score"`
	Findings   []models.Finding `json:"findings"`
}

// SendRun posts a JSON summary of a persisted run to the webhook URL.
// Returns nil if WebhookURL is empty (no-op). Callers should treat errors
// as warnings.
func (n *NotifyConfig) SendRun(run *models.DriftRun) error {
	if n == nil || n.WebhookURL == "" {
		return nil
	}

	payload := runPayload{
		RunID:      run.ID,
		Host:       run.Host,
		CapturedAt: run.CapturedAt,
		CreatedAt:  run.CreatedAt,
		RiskLevel:  run.RiskLevel,
		RiskScore:  run.RiskScore,
		Findings:   run.Result.Findings,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: marshaling payload: %w", err)
	}

	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Post(n.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: posting to %s: %w", n.WebhookURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: webhook returned non-2xx status %d", resp.StatusCode)
	}

	return nil
}
