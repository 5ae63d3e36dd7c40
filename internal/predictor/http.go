package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/strokerisk/strokerisk/internal/assessment"
)

const maxResponseBytes = 1 << 20

// HTTPPredictor calls the prediction service over HTTP.
type HTTPPredictor struct {
	baseURL string
	client  *http.Client
}

var (
	_ Predictor     = (*HTTPPredictor)(nil)
	_ HealthChecker = (*HTTPPredictor)(nil)
)

// NewHTTPPredictor creates a client for the service at cfg.BaseURL.
func NewHTTPPredictor(cfg Config) (*HTTPPredictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HTTPPredictor{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// predictResponse mirrors the service's JSON answer.
type predictResponse struct {
	Success       *bool    `json:"success"`
	Probability   *float64 `json:"probability"`
	RiskLevel     string   `json:"risk_level"`
	Error         string   `json:"error"`
	Prediction    int      `json:"prediction"`
	ThresholdUsed float64  `json:"threshold_used"`
}

func (h *HTTPPredictor) Predict(ctx context.Context, profile assessment.HealthProfile) (*Result, error) {
	body, err := json.Marshal(profile.ToPayload())
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, unreachable("service unreachable", 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, unreachable("reading response failed", resp.StatusCode, err)
	}

	if resp.StatusCode >= 500 {
		return nil, unreachable(serviceMessage(raw, resp.Status), resp.StatusCode, nil)
	}
	if resp.StatusCode >= 400 {
		return nil, rejected(serviceMessage(raw, resp.Status), resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, malformed("unexpected status "+resp.Status, resp.StatusCode, nil)
	}

	return decodePrediction(raw, resp.StatusCode)
}

// decodePrediction turns a 2xx body into a Result or a *PredictionError.
func decodePrediction(raw []byte, status int) (*Result, error) {
	var pr predictResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, malformed("response could not be decoded", status, err)
	}

	if pr.Success == nil {
		return nil, malformed("response has no success flag", status, nil)
	}
	// A business rejection only needs success=false.
	if !*pr.Success {
		msg := pr.Error
		if msg == "" {
			msg = "service reported failure without a reason"
		}
		return nil, rejected(msg, status)
	}

	if err := validateResponse(raw); err != nil {
		return nil, malformed("response violates contract", status, err)
	}
	if pr.Probability == nil {
		return nil, malformed("response has no probability", status, nil)
	}

	return &Result{
		Probability:   *pr.Probability,
		RiskLevel:     pr.RiskLevel,
		Prediction:    pr.Prediction,
		ThresholdUsed: pr.ThresholdUsed,
	}, nil
}

// serviceMessage extracts FastAPI's "detail" or an "error" field from an
// error body, falling back to the HTTP status text.
func serviceMessage(raw []byte, status string) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return status
	}
	if body.Error != "" {
		return body.Error
	}
	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
			return s
		}
		// Request validation errors come as a list of {loc, msg}.
		var items []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if len(it.Loc) > 0 {
					msgs = append(msgs, fmt.Sprintf("%v: %s", it.Loc[len(it.Loc)-1], it.Msg))
				} else {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return status
}

// Health calls GET /health.
func (h *HTTPPredictor) Health(ctx context.Context) (*Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, unreachable("service unreachable", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unreachable("health check returned "+resp.Status, resp.StatusCode, nil)
	}

	var health Health
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&health); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("empty health response", resp.StatusCode, err)
		}
		return nil, malformed("health response is not valid JSON", resp.StatusCode, err)
	}
	return &health, nil
}
