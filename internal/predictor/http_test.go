package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strokerisk/strokerisk/internal/assessment"
)

func newTestPredictor(t *testing.T, handler http.HandlerFunc) *HTTPPredictor {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewHTTPPredictor(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return p
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestPredictSuccess(t *testing.T) {
	var got map[string]any
	p := newTestPredictor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		respond(200, `{"success":true,"prediction":1,"probability":0.82,"risk_level":"HIGH","risk_color":"#dc2626","threshold_used":0.35}`)(w, r)
	})

	profile := assessment.DefaultProfile()
	profile.Hypertension = true
	res, err := p.Predict(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, 0.82, res.Probability)
	assert.Equal(t, "HIGH", res.RiskLevel)
	assert.Equal(t, 1, res.Prediction)
	assert.Equal(t, 0.35, res.ThresholdUsed)

	assert.Equal(t, float64(1), got["hypertension"])
	assert.Equal(t, "never smoked", got["smoking_status"])
	assert.Equal(t, "Urban", got["Residence_type"])
}

func TestPredictFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"business rejection", 200, `{"success":false,"error":"bad input"}`, KindRejected, "bad input"},
		{"rejection without reason", 200, `{"success":false}`, KindRejected, "service reported failure without a reason"},
		{"fastapi 400", 400, `{"detail":"Prediction error: x"}`, KindRejected, "Prediction error: x"},
		{"fastapi 422", 422, `{"detail":[{"loc":["body","age"],"msg":"field required"}]}`, KindRejected, "age: field required"},
		{"model not loaded", 500, `{"detail":"Model not loaded"}`, KindUnreachable, "Model not loaded"},
		{"gateway html", 502, `<html>bad gateway</html>`, KindUnreachable, "502 Bad Gateway"},
		{"not json", 200, `ok`, KindMalformed, "response could not be decoded"},
		{"missing success", 200, `{"probability":0.3}`, KindMalformed, "response has no success flag"},
		{"missing probability", 200, `{"success":true}`, KindMalformed, "response violates contract"},
		{"string probability", 200, `{"success":true,"probability":"0.3"}`, KindMalformed, "response could not be decoded"},
		{"probability out of range", 200, `{"success":true,"probability":1.3}`, KindMalformed, "response violates contract"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPredictor(t, respond(tt.status, tt.body))
			res, err := p.Predict(context.Background(), assessment.DefaultProfile())
			require.Error(t, err)
			assert.Nil(t, res)

			var pe *PredictionError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.message, pe.Message)
			assert.NotEmpty(t, pe.UserMessage())
		})
	}
}

func TestPredictUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p, err := NewHTTPPredictor(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), assessment.DefaultProfile())
	assert.True(t, IsUnreachable(err), "got %v", err)
	assert.False(t, IsRejected(err))
}

func TestPredictTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p, err := NewHTTPPredictor(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = p.Predict(context.Background(), assessment.DefaultProfile())
	assert.True(t, IsUnreachable(err), "got %v", err)
}

func TestHealth(t *testing.T) {
	p := newTestPredictor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		respond(200, `{"status":"healthy","model_loaded":true}`)(w, r)
	})

	h, err := CheckHealth(context.Background(), WithLogging(p, zapNop()))
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.True(t, h.ModelLoaded)
}

func TestHealthFailure(t *testing.T) {
	p := newTestPredictor(t, respond(503, `{}`))
	_, err := p.Health(context.Background())
	assert.True(t, IsUnreachable(err))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{BaseURL: "ftp://x", Timeout: time.Second}.Validate())
	assert.Error(t, Config{BaseURL: "http://", Timeout: time.Second}.Validate())
	assert.Error(t, Config{BaseURL: "http://x", Timeout: 0}.Validate())

	_, err := NewHTTPPredictor(Config{BaseURL: "::", Timeout: time.Second})
	assert.Error(t, err)
}
