package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MODEL_BACKEND", "")
	t.Setenv("HISTORY_ENABLED", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "file", cfg.Model.Backend)
	assert.Equal(t, 5*time.Second, cfg.Model.Timeout)
	assert.True(t, cfg.Model.ExplainerEnabled)
	assert.False(t, cfg.History.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MODEL_BACKEND", "remote")
	t.Setenv("MODEL_SERVING_URL", "http://model:8000")
	t.Setenv("MODEL_TIMEOUT", "750ms")
	t.Setenv("MODEL_EXPLAINER_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://model:8000", cfg.Model.ServingURL)
	assert.Equal(t, 750*time.Millisecond, cfg.Model.Timeout)
	assert.False(t, cfg.Model.ExplainerEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Model: ModelConfig{Backend: "file", Path: "model.yaml"}}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Model.Backend = "onnx" }, "model backend"},
		{"file without path", func(c *Config) { c.Model.Path = "" }, "missing model path"},
		{"remote without url", func(c *Config) { c.Model.Backend = "remote" }, "missing model serving url"},
		{"history without db password", func(c *Config) {
			c.History.Enabled = true
			c.JWT.SecretKey = "s"
		}, "missing database password"},
		{"history without jwt", func(c *Config) {
			c.History.Enabled = true
			c.Database.Password = "p"
		}, "missing jwt secret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
