// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/learning-commons-org/knowledge-graph/internal/config"
	"github.com/learning-commons-org/knowledge-graph/internal/graph"
	"github.com/learning-commons-org/knowledge-graph/internal/provider"
	"github.com/learning-commons-org/knowledge-graph/internal/provider/anthropic"
	"github.com/learning-commons-org/knowledge-graph/internal/provider/google"
	"github.com/learning-commons-org/knowledge-graph/internal/provider/openai"
	"github.com/learning-commons-org/knowledge-graph/internal/provider/openrouter"
	"github.com/learning-commons-org/knowledge-graph/internal/secrets"
	"github.com/learning-commons-org/knowledge-graph/internal/snapshot"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	// Embedding store backends register themselves with the factory.
	_ "github.com/learning-commons-org/knowledge-graph/internal/store/file"
	_ "github.com/learning-commons-org/knowledge-graph/internal/store/sqlite"
)

// App bundles the wired dependencies shared by the commands that answer
// questions from the local dataset.
type App struct {
	Config   *config.Config
	Snapshot *snapshot.Snapshot
	Entities store.EntityStore
	Engine   *graph.Engine

	closers []closer
}

type closer interface {
	Close() error
}

// newApp loads configuration and the configured snapshot and wires the
// graph engine on top.
func newApp() (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newAppFromConfig(cfg)
}

func newAppFromConfig(cfg *config.Config) (*App, error) {
	if cfg.Data.Dir == "" {
		return nil, kgerr.New(kgerr.CodeCLIInputInvalid,
			"no data directory configured; set data.dir in kgraph.yaml or pass --data-dir")
	}

	// 1. Load the snapshot CSVs.
	snap, err := snapshot.Load(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}
	slog.Debug("snapshot loaded", "summary", snap.Describe())

	// 2. Index the entities and build the relationship engine.
	entities := snap.EntityStore()
	engine := graph.NewEngine(entities)

	return &App{
		Config:   cfg,
		Snapshot: snap,
		Entities: entities,
		Engine:   engine,
	}, nil
}

// trackClose registers c for release when the App closes.
func (a *App) trackClose(c closer) {
	a.closers = append(a.closers, c)
}

// Close releases tracked resources in reverse wiring order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openEmbeddingStore opens the configured embedding store backend and
// tracks it for closing.
func (a *App) openEmbeddingStore() (store.EmbeddingStore, error) {
	st, err := store.NewEmbeddingStore(&store.StorageConfig{
		Backend:          a.Config.Embeddings.Backend,
		Path:             a.Config.EmbeddingsPath(),
		VectorDimensions: a.Config.Embeddings.Dimensions,
	})
	if err != nil {
		return nil, err
	}
	a.trackClose(st)
	return st, nil
}

// Provider factories are package-level so tests can swap in fakes
// without touching wiring code.
var (
	embedderFactories = map[string]func(cfg *config.Config, key string) (provider.Embedder, error){
		"google": newGoogleEmbedder,
		"openai": newOpenAIEmbedder,
	}

	generatorFactories = map[string]func(cfg *config.Config, key string) (provider.Generator, error){
		"anthropic":  newAnthropicGenerator,
		"google":     newGoogleGenerator,
		"openai":     newOpenAIGenerator,
		"openrouter": newOpenRouterGenerator,
	}
)

// newEmbedder builds the embedding client named by embeddings.provider.
func (a *App) newEmbedder() (provider.Embedder, error) {
	name := a.Config.Embeddings.Provider
	factory, ok := embedderFactories[name]
	if !ok {
		return nil, kgerr.Errorf(kgerr.CodeCLISetupFailure, "no embedder factory for provider %q", name)
	}

	key, err := resolveAPIKey(a.Config, name)
	if err != nil {
		return nil, err
	}

	embedder, err := factory(a.Config, key)
	if err != nil {
		return nil, err
	}
	a.trackClose(embedder)
	return embedder, nil
}

// newGenerator builds the text generation client named by practice.provider.
func (a *App) newGenerator() (provider.Generator, error) {
	name := a.Config.Practice.Provider
	factory, ok := generatorFactories[name]
	if !ok {
		return nil, kgerr.Errorf(kgerr.CodeCLISetupFailure, "no generator factory for provider %q", name)
	}

	key, err := resolveAPIKey(a.Config, name)
	if err != nil {
		return nil, err
	}

	generator, err := factory(a.Config, key)
	if err != nil {
		return nil, err
	}
	a.trackClose(generator)
	return generator, nil
}

// resolveAPIKey looks up the provider's configured key and resolves
// keyring:// and env:// references through the secret store.
func resolveAPIKey(cfg *config.Config, name string) (string, error) {
	pc, ok := cfg.Providers[name]
	if !ok || pc.APIKey == "" {
		return "", kgerr.Errorf(kgerr.CodeProviderNotConfigured,
			"no API key configured for provider %q; add providers.%s.api_key to kgraph.yaml or run 'kgraph secret set %s'",
			name, name, name)
	}

	key, err := secrets.Resolve(secretStoreFactory(), pc.APIKey)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(key) == "" {
		return "", kgerr.Errorf(kgerr.CodeProviderNotConfigured,
			"provider %q resolved to an empty API key", name)
	}
	return key, nil
}

// generatorModel picks the model for a generation provider: the
// per-provider override wins, then the practice default.
func generatorModel(cfg *config.Config, name string) string {
	if pc, ok := cfg.Providers[name]; ok && pc.Model != "" {
		return pc.Model
	}
	return cfg.Practice.Model
}

func newOpenAIEmbedder(cfg *config.Config, key string) (provider.Embedder, error) {
	return openai.New(openai.Config{
		APIKey:         key,
		BaseURL:        cfg.Providers["openai"].Endpoint,
		EmbeddingModel: cfg.Embeddings.Model,
	})
}

func newGoogleEmbedder(cfg *config.Config, key string) (provider.Embedder, error) {
	return google.New(google.Config{
		APIKey:         key,
		EmbeddingModel: cfg.Embeddings.Model,
	})
}

func newOpenAIGenerator(cfg *config.Config, key string) (provider.Generator, error) {
	return openai.New(openai.Config{
		APIKey:      key,
		BaseURL:     cfg.Providers["openai"].Endpoint,
		ChatModel:   generatorModel(cfg, "openai"),
		Temperature: cfg.Practice.Temperature,
	})
}

func newGoogleGenerator(cfg *config.Config, key string) (provider.Generator, error) {
	return google.New(google.Config{
		APIKey:      key,
		ChatModel:   generatorModel(cfg, "google"),
		Temperature: cfg.Practice.Temperature,
	})
}

func newAnthropicGenerator(cfg *config.Config, key string) (provider.Generator, error) {
	return anthropic.New(anthropic.Config{
		APIKey:      key,
		BaseURL:     cfg.Providers["anthropic"].Endpoint,
		Model:       generatorModel(cfg, "anthropic"),
		Temperature: cfg.Practice.Temperature,
	})
}

func newOpenRouterGenerator(cfg *config.Config, key string) (provider.Generator, error) {
	return openrouter.New(openrouter.Config{
		APIKey:      key,
		BaseURL:     cfg.Providers["openrouter"].Endpoint,
		Model:       generatorModel(cfg, "openrouter"),
		Temperature: cfg.Practice.Temperature,
	})
}

// resolveStandardByCode finds the one standard a human-entered statement
// code refers to. Codes repeat across jurisdictions, so a bare code that
// matches several standards needs --jurisdiction to disambiguate.
func resolveStandardByCode(entities store.EntityStore, code, jurisdiction string) (*store.Standard, error) {
	matches := entities.StandardsByCode(code)
	if jurisdiction != "" {
		filtered := make([]*store.Standard, 0, len(matches))
		for _, std := range matches {
			if std.Jurisdiction == jurisdiction {
				filtered = append(filtered, std)
			}
		}
		matches = filtered
	}

	switch {
	case len(matches) == 0 && jurisdiction != "":
		return nil, kgerr.Errorf(kgerr.CodeStoreStandardNotFound,
			"no standard with code %q in jurisdiction %q", code, jurisdiction)
	case len(matches) == 0:
		return nil, kgerr.Errorf(kgerr.CodeStoreStandardNotFound, "no standard with code %q", code)
	case len(matches) == 1 || jurisdiction != "":
		// Within one jurisdiction a repeated code resolves to the first
		// loaded standard.
		return matches[0], nil
	default:
		jurisdictions := make([]string, 0, len(matches))
		for _, std := range matches {
			jurisdictions = append(jurisdictions, std.Jurisdiction)
		}
		return nil, kgerr.Errorf(kgerr.CodeStoreStandardAmbiguous,
			"code %q matches %d standards (jurisdictions: %s); pass --jurisdiction to pick one",
			code, len(matches), strings.Join(jurisdictions, ", "))
	}
}
