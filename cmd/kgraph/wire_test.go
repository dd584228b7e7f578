// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learning-commons-org/knowledge-graph/internal/config"
	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/learning-commons-org/knowledge-graph/internal/secrets"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// scriptedEmbedder returns canned vectors keyed by input text, with an
// optional per-text error script.
type scriptedEmbedder struct {
	vectors  map[string][]float32
	errs     map[string]error
	fallback []float32
	closed   bool
}

func (s *scriptedEmbedder) Name() string { return "scripted" }

func (s *scriptedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if err, ok := s.errs[text]; ok {
		return nil, err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return s.fallback, nil
}

func (s *scriptedEmbedder) Close() error {
	s.closed = true
	return nil
}

// scriptedGenerator records the prompts it was handed and replies with a
// canned string or error.
type scriptedGenerator struct {
	system string
	user   string
	reply  string
	err    error
	closed bool
}

func (g *scriptedGenerator) Name() string { return "scripted" }

func (g *scriptedGenerator) Generate(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	g.system = systemPrompt
	g.user = userPrompt
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func (g *scriptedGenerator) Close() error {
	g.closed = true
	return nil
}

func swapEmbedderFactory(t *testing.T, name string, embedder provider.Embedder) {
	t.Helper()
	orig := embedderFactories[name]
	embedderFactories[name] = func(*config.Config, string) (provider.Embedder, error) {
		return embedder, nil
	}
	t.Cleanup(func() { embedderFactories[name] = orig })
}

func swapGeneratorFactory(t *testing.T, name string, generator provider.Generator) {
	t.Helper()
	orig := generatorFactories[name]
	generatorFactories[name] = func(*config.Config, string) (provider.Generator, error) {
		return generator, nil
	}
	t.Cleanup(func() { generatorFactories[name] = orig })
}

// providerTestConfig is a hand-built config for wiring tests that never
// goes through Validate.
func providerTestConfig() *config.Config {
	return &config.Config{
		Embeddings: config.EmbeddingsConfig{
			Backend:    "file",
			Provider:   "openai",
			Model:      "test-embedding",
			Dimensions: 2,
		},
		Providers: map[string]config.ProviderConfig{
			"openai": {APIKey: "sk-test"},
		},
		Practice: config.PracticeConfig{
			Provider: "openai",
			Model:    "gpt-4",
		},
	}
}

func TestNewAppFromConfig_RequiresDataDir(t *testing.T) {
	_, err := newAppFromConfig(&config.Config{})
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeCLIInputInvalid),
		"expected input error, got: %v", err)
}

func TestNewAppFromConfig_WiresGraph(t *testing.T) {
	cfg := providerTestConfig()
	cfg.Data.Dir = writeSnapshotFixture(t)

	app, err := newAppFromConfig(cfg)
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	require.NotNil(t, app.Entities)
	require.NotNil(t, app.Engine)

	counts := app.Entities.Counts()
	assert.Equal(t, 4, counts.Standards)
	assert.Equal(t, 2, counts.Components)
	assert.Equal(t, 5, counts.Edges)
	assert.Equal(t, 1, counts.Frameworks)
}

func TestAppClose_ReverseOrderAndJoinedErrors(t *testing.T) {
	app := &App{}
	var order []string
	app.trackClose(closerFunc(func() error {
		order = append(order, "first")
		return nil
	}))
	app.trackClose(closerFunc(func() error {
		order = append(order, "second")
		return errors.New("second close failed")
	}))

	err := app.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second close failed")
	assert.Equal(t, []string{"second", "first"}, order)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestNewEmbedder_UsesFactory(t *testing.T) {
	fake := &scriptedEmbedder{fallback: []float32{1, 0}}
	swapEmbedderFactory(t, "openai", fake)

	app := &App{Config: providerTestConfig()}
	embedder, err := app.newEmbedder()
	require.NoError(t, err)
	assert.Same(t, fake, embedder)

	require.NoError(t, app.Close())
	assert.True(t, fake.closed, "Close should release the tracked embedder")
}

func TestNewEmbedder_UnknownProvider(t *testing.T) {
	cfg := providerTestConfig()
	cfg.Embeddings.Provider = "mystery"

	app := &App{Config: cfg}
	_, err := app.newEmbedder()
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeCLISetupFailure),
		"expected setup failure for unknown provider, got: %v", err)
}

func TestNewEmbedder_MissingKey(t *testing.T) {
	cfg := providerTestConfig()
	cfg.Providers = nil

	app := &App{Config: cfg}
	_, err := app.newEmbedder()
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeProviderNotConfigured),
		"expected provider-not-configured, got: %v", err)
}

func TestNewGenerator_UsesFactory(t *testing.T) {
	fake := &scriptedGenerator{reply: "ok"}
	swapGeneratorFactory(t, "openai", fake)

	app := &App{Config: providerTestConfig()}
	generator, err := app.newGenerator()
	require.NoError(t, err)
	assert.Same(t, fake, generator)

	require.NoError(t, app.Close())
	assert.True(t, fake.closed, "Close should release the tracked generator")
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("literal value passes through", func(t *testing.T) {
		cfg := providerTestConfig()
		key, err := resolveAPIKey(cfg, "openai")
		require.NoError(t, err)
		assert.Equal(t, "sk-test", key)
	})

	t.Run("missing provider entry", func(t *testing.T) {
		cfg := providerTestConfig()
		_, err := resolveAPIKey(cfg, "anthropic")
		require.Error(t, err)
		assert.True(t, kgerr.HasCode(err, kgerr.CodeProviderNotConfigured))
		assert.Contains(t, err.Error(), "kgraph secret set anthropic")
	})

	t.Run("env reference", func(t *testing.T) {
		t.Setenv("KGRAPH_TEST_GOOGLE_KEY", "g-key")
		cfg := providerTestConfig()
		cfg.Providers["google"] = config.ProviderConfig{APIKey: "env://KGRAPH_TEST_GOOGLE_KEY"}

		key, err := resolveAPIKey(cfg, "google")
		require.NoError(t, err)
		assert.Equal(t, "g-key", key)
	})

	t.Run("keyring reference", func(t *testing.T) {
		mock := newMockSecretStore()
		mock.data["openai-key"] = "sk-from-keyring"
		origFactory := secretStoreFactory
		secretStoreFactory = func() secrets.Store { return mock }
		t.Cleanup(func() { secretStoreFactory = origFactory })

		cfg := providerTestConfig()
		cfg.Providers["openai"] = config.ProviderConfig{APIKey: "keyring://kgraph/openai-key"}

		key, err := resolveAPIKey(cfg, "openai")
		require.NoError(t, err)
		assert.Equal(t, "sk-from-keyring", key)
	})

	t.Run("blank resolved key rejected", func(t *testing.T) {
		t.Setenv("KGRAPH_TEST_BLANK_KEY", "   ")
		cfg := providerTestConfig()
		cfg.Providers["openai"] = config.ProviderConfig{APIKey: "env://KGRAPH_TEST_BLANK_KEY"}

		_, err := resolveAPIKey(cfg, "openai")
		require.Error(t, err)
		assert.True(t, kgerr.HasCode(err, kgerr.CodeProviderNotConfigured))
		assert.Contains(t, err.Error(), "empty API key")
	})
}

func TestGeneratorModel(t *testing.T) {
	cfg := providerTestConfig()
	assert.Equal(t, "gpt-4", generatorModel(cfg, "anthropic"))

	cfg.Providers["anthropic"] = config.ProviderConfig{Model: "claude-sonnet-4"}
	assert.Equal(t, "claude-sonnet-4", generatorModel(cfg, "anthropic"))
	assert.Equal(t, "gpt-4", generatorModel(cfg, "google"))
}

func TestResolveStandardByCode(t *testing.T) {
	entities := store.NewMemoryEntityStore(
		[]*store.Standard{
			{ID: "std-1", StatementCode: "6.NS.B.4", Jurisdiction: "Multi-State"},
			{ID: "std-2", StatementCode: "6.NS.B.4", Jurisdiction: "West Virginia"},
			{ID: "std-3", StatementCode: "4.OA.B.4", Jurisdiction: "Multi-State"},
			{ID: "std-4", StatementCode: "6.NS.B.4", Jurisdiction: "Multi-State"},
		}, nil, nil, nil)

	t.Run("unique code resolves", func(t *testing.T) {
		std, err := resolveStandardByCode(entities, "4.OA.B.4", "")
		require.NoError(t, err)
		assert.Equal(t, "std-3", std.ID)
	})

	t.Run("jurisdiction disambiguates", func(t *testing.T) {
		std, err := resolveStandardByCode(entities, "6.NS.B.4", "West Virginia")
		require.NoError(t, err)
		assert.Equal(t, "std-2", std.ID)
	})

	t.Run("repeated code within a jurisdiction takes the first loaded", func(t *testing.T) {
		std, err := resolveStandardByCode(entities, "6.NS.B.4", "Multi-State")
		require.NoError(t, err)
		assert.Equal(t, "std-1", std.ID)
	})

	t.Run("ambiguous bare code lists jurisdictions", func(t *testing.T) {
		_, err := resolveStandardByCode(entities, "6.NS.B.4", "")
		require.Error(t, err)
		assert.True(t, kgerr.HasCode(err, kgerr.CodeStoreStandardAmbiguous))
		assert.Contains(t, err.Error(), "Multi-State")
		assert.Contains(t, err.Error(), "West Virginia")
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := resolveStandardByCode(entities, "9.G.A.1", "")
		require.Error(t, err)
		assert.True(t, kgerr.HasCode(err, kgerr.CodeStoreStandardNotFound))
	})

	t.Run("unknown code in jurisdiction names it", func(t *testing.T) {
		_, err := resolveStandardByCode(entities, "4.OA.B.4", "Texas")
		require.Error(t, err)
		assert.True(t, kgerr.HasCode(err, kgerr.CodeStoreStandardNotFound))
		assert.Contains(t, err.Error(), "Texas")
	})
}
