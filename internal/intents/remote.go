package intents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// RemoteClassifier calls a trained intent model over HTTP. It is an
// optional dependency; callers wrap it with the rule fallback.
type RemoteClassifier struct {
	cfg  Config
	http *http.Client
}

func NewRemoteClassifier(cfg Config) *RemoteClassifier {
	return &RemoteClassifier{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 2 * time.Second,
				}).DialContext,
			},
		},
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

func (c *RemoteClassifier) Predict(ctx context.Context, text string) (Intent, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		intent, conf, err := c.doRequest(ctx, text)
		if err == nil {
			return intent, conf, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return IntentOther, 0.0, lastErr
}

func (c *RemoteClassifier) doRequest(ctx context.Context, text string) (Intent, float64, error) {
	payload, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return IntentOther, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/predict", bytes.NewReader(payload))
	if err != nil {
		return IntentOther, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return IntentOther, 0, fmt.Errorf("intent model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return IntentOther, 0, fmt.Errorf("intent model returned %d: %s", resp.StatusCode, string(body))
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return IntentOther, 0, fmt.Errorf("decode response: %w", err)
	}
	return Intent(out.Intent), out.Confidence, nil
}

// Available checks whether the intent model endpoint is reachable.
func (c *RemoteClassifier) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
