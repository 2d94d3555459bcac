package model

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"carbonCare/business/normalizer"
	"carbonCare/domain"
	"carbonCare/pkg/config"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelServer(t *testing.T, health RemoteHealth, values []float64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(health)
	})
	mux.HandleFunc("/v1/predict", func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Columns) != domain.FeatureCount || len(req.Categorical) != 13 {
			http.Error(w, "bad columns", http.StatusBadRequest)
			return
		}
		km, _ := req.Features["Vehicle Monthly Distance Km"].(float64)
		_ = json.NewEncoder(w).Encode(predictResponse{Prediction: 1000 + km})
	})
	mux.HandleFunc("/v1/explain", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(explainResponse{Values: values})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteModelPredictAndAttribute(t *testing.T) {
	values := make([]float64, domain.FeatureCount)
	values[0] = 12.5
	srv := newModelServer(t, RemoteHealth{Status: "healthy", ModelLoaded: true, ShapAvailable: true}, values)

	m := NewRemoteModel(srv.URL+"/", time.Second)
	vec := normalizer.Normalize(domain.RawPayload{"Vehicle Monthly Distance Km": 250.0})

	score, err := m.Predict(context.Background(), vec, domain.CategoricalFeatures())
	require.NoError(t, err)
	assert.Equal(t, 1250.0, score)

	scores, err := m.Attribute(context.Background(), vec)
	require.NoError(t, err)
	assert.Equal(t, values, scores)
}

func TestRemoteModelStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	m := NewRemoteModel(srv.URL, time.Second)
	_, err := m.Predict(context.Background(), domain.FeatureVector{}, nil)
	assert.ErrorContains(t, err, "status 500")
}

func TestRemoteModelBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	m := NewRemoteModel(srv.URL, time.Second)
	for i := 0; i < 5; i++ {
		_, err := m.Predict(context.Background(), domain.FeatureVector{}, nil)
		require.Error(t, err)
	}

	_, err := m.Predict(context.Background(), domain.FeatureVector{}, nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), hits.Load())
}

func TestLoadRemote(t *testing.T) {
	srv := newModelServer(t, RemoteHealth{Status: "healthy", ModelLoaded: true, ShapAvailable: false}, nil)

	models, err := Load(context.Background(), config.ModelConfig{
		Backend:          BackendRemote,
		ServingURL:       srv.URL,
		Timeout:          time.Second,
		ExplainerEnabled: true,
	})
	require.NoError(t, err)
	assert.True(t, models.Loaded)
	assert.NotNil(t, models.Predictor)
	assert.Nil(t, models.Explainer)
}

func TestLoadRemoteWithoutModel(t *testing.T) {
	srv := newModelServer(t, RemoteHealth{Status: "healthy"}, nil)

	models, err := Load(context.Background(), config.ModelConfig{Backend: BackendRemote, ServingURL: srv.URL})
	assert.ErrorIs(t, err, ErrRemoteModelNotLoaded)
	assert.False(t, models.Loaded)
}

func TestLoadFile(t *testing.T) {
	models, err := Load(context.Background(), config.ModelConfig{
		Backend:          BackendFile,
		Path:             "testdata/small_model.json",
		ExplainerEnabled: true,
	})
	require.NoError(t, err)
	assert.True(t, models.Loaded)
	assert.NotNil(t, models.Explainer)

	noExplainer, err := Load(context.Background(), config.ModelConfig{Backend: BackendFile, Path: "testdata/small_model.json"})
	require.NoError(t, err)
	assert.Nil(t, noExplainer.Explainer)

	_, err = Load(context.Background(), config.ModelConfig{Backend: "onnx"})
	assert.ErrorContains(t, err, "unknown model backend")
}
