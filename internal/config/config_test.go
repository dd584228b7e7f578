// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learning-commons-org/knowledge-graph/internal/config"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Data.Dir)
	assert.Equal(t, "file", cfg.Embeddings.Backend)
	assert.Equal(t, "openai", cfg.Embeddings.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embeddings.Model)
	assert.Equal(t, 1536, cfg.Embeddings.Dimensions)
	assert.Equal(t, "openai", cfg.Practice.Provider)
	assert.Equal(t, "gpt-4", cfg.Practice.Model)
	assert.InDelta(t, 0.7, cfg.Practice.Temperature, 1e-9)
	assert.Equal(t, 3, cfg.Practice.QuestionCount)
	assert.Equal(t, "Multi-State", cfg.Practice.Jurisdiction)
	assert.Equal(t, "Mathematics", cfg.Practice.AcademicSubject)
	assert.Equal(t, "127.0.0.1:8791", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Embed)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Generate)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kgraph.yaml")
	content := `
data:
  dir: /srv/standards
embeddings:
  backend: sqlite
  provider: google
  model: text-embedding-004
  dimensions: 768
providers:
  google:
    api_key: env://GOOGLE_API_KEY
  anthropic:
    api_key: keyring://kgraph/anthropic
practice:
  provider: anthropic
  model: claude-sonnet-4-5
  question_count: 5
server:
  listen: 0.0.0.0:9000
timeouts:
  embed: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/standards", cfg.Data.Dir)
	assert.Equal(t, "sqlite", cfg.Embeddings.Backend)
	assert.Equal(t, "google", cfg.Embeddings.Provider)
	assert.Equal(t, "text-embedding-004", cfg.Embeddings.Model)
	assert.Equal(t, 768, cfg.Embeddings.Dimensions)
	assert.Equal(t, "env://GOOGLE_API_KEY", cfg.Providers["google"].APIKey)
	assert.Equal(t, "anthropic", cfg.Practice.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Practice.Model)
	assert.Equal(t, 5, cfg.Practice.QuestionCount)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Embed)

	// Keys absent from the file keep their defaults.
	assert.InDelta(t, 0.7, cfg.Practice.Temperature, 1e-9)
	assert.Equal(t, 60*time.Second, cfg.Timeouts.Generate)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("KGRAPH_SERVER_LISTEN", "0.0.0.0:8080")
	t.Setenv("KGRAPH_EMBEDDINGS_BACKEND", "sqlite")
	t.Setenv("KGRAPH_DATA_DIR", "/var/lib/kgraph")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Listen)
	assert.Equal(t, "sqlite", cfg.Embeddings.Backend)
	assert.Equal(t, "/var/lib/kgraph", cfg.Data.Dir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeConfigLoadReadFailure))
}

func TestLoad_TypeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embeddings:\n  dimensions: twelve\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeConfigParseInvalidFormat))
}

func TestLoad_ValidationCalledAtLoadTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("embeddings:\n  backend: redis\n"), 0o600))

	_, err := config.Load(path)
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeConfigValidateInvalidValue))
	assert.Contains(t, err.Error(), "embeddings.backend")
}

// validConfig returns a configuration that passes Validate, for mutation
// in the per-field tests below.
func validConfig() *config.Config {
	return &config.Config{
		Embeddings: config.EmbeddingsConfig{
			Backend:    "file",
			Provider:   "openai",
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		Practice: config.PracticeConfig{
			Provider:        "openai",
			Model:           "gpt-4",
			Temperature:     0.7,
			QuestionCount:   3,
			Jurisdiction:    "Multi-State",
			AcademicSubject: "Mathematics",
		},
		Server: config.ServerConfig{Listen: "127.0.0.1:8791"},
		Timeouts: config.TimeoutsConfig{
			Embed:    30 * time.Second,
			Generate: 60 * time.Second,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_Embeddings(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"unknown backend", func(c *config.Config) { c.Embeddings.Backend = "redis" }, "embeddings.backend"},
		{"empty backend", func(c *config.Config) { c.Embeddings.Backend = "" }, "embeddings.backend"},
		{"generation-only provider", func(c *config.Config) { c.Embeddings.Provider = "anthropic" }, "embeddings.provider"},
		{"empty provider", func(c *config.Config) { c.Embeddings.Provider = "" }, "embeddings.provider"},
		{"empty model", func(c *config.Config) { c.Embeddings.Model = "" }, "embeddings.model"},
		{"zero dimensions", func(c *config.Config) { c.Embeddings.Dimensions = 0 }, "embeddings.dimensions"},
		{"negative dimensions", func(c *config.Config) { c.Embeddings.Dimensions = -5 }, "embeddings.dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.wantErr)
		})
	}
}

func TestValidate_Practice(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"unknown provider", func(c *config.Config) { c.Practice.Provider = "cohere" }, "practice.provider"},
		{"empty provider", func(c *config.Config) { c.Practice.Provider = "" }, "practice.provider"},
		{"zero question count", func(c *config.Config) { c.Practice.QuestionCount = 0 }, "practice.question_count"},
		{"negative question count", func(c *config.Config) { c.Practice.QuestionCount = -1 }, "practice.question_count"},
		{"temperature too high", func(c *config.Config) { c.Practice.Temperature = 2.5 }, "practice.temperature"},
		{"temperature negative", func(c *config.Config) { c.Practice.Temperature = -0.1 }, "practice.temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := cfg.Validate()
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.wantErr)
		})
	}
}

func TestValidate_ServerListen(t *testing.T) {
	tests := []struct {
		name    string
		listen  string
		wantErr bool
	}{
		{"loopback with port", "127.0.0.1:8791", false},
		{"all interfaces", ":8080", false},
		{"hostname", "localhost:9000", false},
		{"missing port", "127.0.0.1", true},
		{"empty", "", true},
		{"non-numeric port", "127.0.0.1:http", true},
		{"port zero", "127.0.0.1:0", true},
		{"port out of range", "127.0.0.1:70000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Listen = tt.listen

			errs := cfg.Validate()
			if tt.wantErr {
				require.Len(t, errs, 1)
				assert.Contains(t, errs[0].Error(), "server.listen")
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidate_Timeouts(t *testing.T) {
	cfg := validConfig()
	cfg.Timeouts.Embed = 0
	cfg.Timeouts.Generate = -time.Second

	errs := cfg.Validate()
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "timeouts.embed")
	assert.Contains(t, errs[1].Error(), "timeouts.generate")
}

func TestValidate_ProviderCrossReference(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = map[string]config.ProviderConfig{
		"anthropic": {APIKey: "sk-test"},
	}
	cfg.Practice.Provider = "anthropic"

	errs := cfg.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "embeddings.provider")
	assert.Contains(t, errs[0].Error(), "providers")
}

func TestValidate_NilProvidersSkipsCrossReference(t *testing.T) {
	// Providers may be resolved from the environment alone, so an absent
	// providers section is not an error.
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Embeddings.Backend = "redis"
	cfg.Practice.QuestionCount = 0
	cfg.Server.Listen = "nope"

	errs := cfg.Validate()
	assert.Len(t, errs, 3)
}

func TestEmbeddingsPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.Dir = "/srv/standards"

	assert.Equal(t, filepath.Join("/srv/standards", "embeddings.json"), cfg.EmbeddingsPath())

	cfg.Embeddings.Backend = "sqlite"
	assert.Equal(t, filepath.Join("/srv/standards", "embeddings.db"), cfg.EmbeddingsPath())

	cfg.Embeddings.Path = "/tmp/custom.db"
	assert.Equal(t, "/tmp/custom.db", cfg.EmbeddingsPath())
}
