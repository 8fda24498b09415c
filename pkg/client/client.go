package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the slipcast SDK client.
type Client struct {
	endpoint string
	http     *http.Client
	backoff  BackoffStrategy
	retries  int
}

// NewClient creates a new slipcast client.
// endpoint defaults to "http://127.0.0.1:8790" if empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = "http://127.0.0.1:8790"
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		backoff: DefaultBackoff(),
		retries: 2,
	}
}

// SetRetries sets the number of retries for transient failures.
func (c *Client) SetRetries(n int) {
	if n >= 0 {
		c.retries = n
	}
}

// FindCriticalPath asks the daemon for the maximum-weight dependency chain.
func (c *Client) FindCriticalPath(ctx context.Context, req GraphRequest) (CriticalPathResult, error) {
	var result CriticalPathResult
	err := c.postJSON(ctx, "/v1/critical-path", req, &result)
	return result, err
}

// CalculateCascadeImpact asks the daemon which items a slipping work item
// affects and by how much.
func (c *Client) CalculateCascadeImpact(ctx context.Context, req CascadeImpactRequest) (CascadeImpactResult, error) {
	if req.WorkItemID == "" {
		return CascadeImpactResult{}, fmt.Errorf("invalid request: missing work item id")
	}
	var result CascadeImpactResult
	err := c.postJSON(ctx, "/v1/cascade-impact", req, &result)
	return result, err
}

// PredictRisk asks the daemon for a 0-100 risk score.
func (c *Client) PredictRisk(ctx context.Context, factors RiskFactors) (RiskResult, error) {
	var result RiskResult
	err := c.postJSON(ctx, "/v1/risk", factors, &result)
	return result, err
}

// AnalyzeText scans free-form work item text for dependency markers.
func (c *Client) AnalyzeText(ctx context.Context, text string) (TextAnalysis, error) {
	var result TextAnalysis
	err := c.postJSON(ctx, "/v1/dependencies/analyze", map[string]string{"text": text}, &result)
	return result, err
}

// GetAnalyses fetches recent audit records from the daemon.
func (c *Client) GetAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	url := fmt.Sprintf("%s/v1/analyses?limit=%d", c.endpoint, limit)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var records []AnalysisRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}

	return records, nil
}

// Ping checks the health of the daemon.
func (c *Client) Ping(ctx context.Context) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"/v1/health", nil)
	if err != nil {
		return Status{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Status{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return Status{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, err
	}

	return status, nil
}

// postJSON sends a request and decodes the response, retrying transient
// failures with backoff. Analyses are pure queries, so retrying is safe; the
// worst case is a duplicate audit entry.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff.Next(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("upstream error: status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != 200 {
			resp.Body.Close()
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return lastErr
}
