package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"carbonCare/domain"
	"carbonCare/pkg/logger"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "model-serving"

// RemoteHealth is the model server's health report.
type RemoteHealth struct {
	Status        string `json:"status"`
	ModelLoaded   bool   `json:"model_loaded"`
	ShapAvailable bool   `json:"shap_available"`
}

type predictRequest struct {
	Features    map[string]any `json:"features"`
	Columns     []string       `json:"columns"`
	Categorical []string       `json:"categorical"`
}

type predictResponse struct {
	Prediction float64 `json:"prediction"`
}

type explainRequest struct {
	Features map[string]any `json:"features"`
	Columns  []string       `json:"columns"`
}

type explainResponse struct {
	Values []float64 `json:"values"`
}

// RemoteModel calls a model-serving sidecar over HTTP. Calls go through a
// circuit breaker so a dead sidecar fails requests fast.
type RemoteModel struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker[[]byte]
	columns []string
}

func NewRemoteModel(baseURL string, timeout time.Duration) *RemoteModel {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	columns := make([]string, 0, domain.FeatureCount)
	for _, k := range domain.CanonicalFeatureOrder {
		columns = append(columns, string(k))
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return counts.ConsecutiveFailures >= 5
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &RemoteModel{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cb:      cb,
		columns: columns,
	}
}

func (m *RemoteModel) ConcurrencySafe() bool { return true }

func (m *RemoteModel) Health(ctx context.Context) (RemoteHealth, error) {
	body, err := m.call(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return RemoteHealth{}, err
	}

	var h RemoteHealth
	if err := json.Unmarshal(body, &h); err != nil {
		return RemoteHealth{}, fmt.Errorf("failed to decode health response: %w", err)
	}
	return h, nil
}

func (m *RemoteModel) Predict(ctx context.Context, vec domain.FeatureVector, categorical []domain.FeatureKey) (float64, error) {
	req := predictRequest{
		Features:    vec.Map(),
		Columns:     m.columns,
		Categorical: make([]string, 0, len(categorical)),
	}
	for _, k := range categorical {
		req.Categorical = append(req.Categorical, string(k))
	}

	body, err := m.call(ctx, http.MethodPost, "/v1/predict", req)
	if err != nil {
		return 0, err
	}

	var res predictResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return 0, fmt.Errorf("failed to decode predict response: %w", err)
	}
	return res.Prediction, nil
}

// Attribute returns the sidecar's values unchanged; length checks are
// left to the aggregator.
func (m *RemoteModel) Attribute(ctx context.Context, vec domain.FeatureVector) ([]float64, error) {
	body, err := m.call(ctx, http.MethodPost, "/v1/explain", explainRequest{
		Features: vec.Map(),
		Columns:  m.columns,
	})
	if err != nil {
		return nil, err
	}

	var res explainResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("failed to decode explain response: %w", err)
	}
	return res.Values, nil
}

func (m *RemoteModel) call(ctx context.Context, method, path string, payload any) ([]byte, error) {
	body, err := m.cb.Execute(func() ([]byte, error) {
		return m.do(ctx, method, path, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("model server %s rejected: %w", path, err)
		}
		return nil, err
	}
	return body, nil
}

func (m *RemoteModel) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model server %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
