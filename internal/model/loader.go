package model

import (
	"context"
	"errors"
	"fmt"

	"carbonCare/business/prediction"
	"carbonCare/pkg/config"
	"carbonCare/pkg/logger"
)

const (
	BackendFile   = "file"
	BackendRemote = "remote"
)

var ErrRemoteModelNotLoaded = errors.New("model server reports no model loaded")

// Load builds the model pair for the configured backend. On failure the
// returned Models is still usable: it reports Loaded=false so requests fail
// with prediction.ErrModelUnavailable and /health reflects it.
func Load(ctx context.Context, cfg config.ModelConfig) (prediction.Models, error) {
	switch cfg.Backend {
	case BackendFile, "":
		return loadFile(cfg)
	case BackendRemote:
		return loadRemote(ctx, cfg)
	default:
		return prediction.Models{}, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
}

func loadFile(cfg config.ModelConfig) (prediction.Models, error) {
	m, err := LoadAdditive(cfg.Path)
	if err != nil {
		return prediction.Models{}, fmt.Errorf("failed to load model: %w", err)
	}

	models := prediction.Models{
		Predictor:      m,
		Loaded:         true,
		SerializeCalls: cfg.SerializeCalls,
	}
	if cfg.ExplainerEnabled {
		models.Explainer = m
	}

	logger.Info("Model loaded",
		"backend", BackendFile,
		"path", cfg.Path,
		"version", m.Version(),
		"baseline", m.Baseline(),
		"explainer", models.Explainer != nil,
	)
	return models, nil
}

func loadRemote(ctx context.Context, cfg config.ModelConfig) (prediction.Models, error) {
	m := NewRemoteModel(cfg.ServingURL, cfg.Timeout)

	h, err := m.Health(ctx)
	if err != nil {
		return prediction.Models{}, fmt.Errorf("failed to reach model server: %w", err)
	}
	if !h.ModelLoaded {
		return prediction.Models{}, ErrRemoteModelNotLoaded
	}

	models := prediction.Models{
		Predictor:      m,
		Loaded:         true,
		SerializeCalls: cfg.SerializeCalls,
	}
	if cfg.ExplainerEnabled && h.ShapAvailable {
		models.Explainer = m
	}

	logger.Info("Model loaded",
		"backend", BackendRemote,
		"url", cfg.ServingURL,
		"explainer", models.Explainer != nil,
	)
	return models, nil
}
