// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package store

import (
	"sync"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// defaultVectorDimensions is the default embedding dimension (matches
// OpenAI text-embedding-3-small).
const defaultVectorDimensions = 1536

// EmbeddingStoreFactory creates an embedding store for a target path and
// vector dimensions.
type EmbeddingStoreFactory func(path string, vectorDims int) (EmbeddingStore, error)

var (
	embeddingFactories = map[string]EmbeddingStoreFactory{}
	factoriesMu        sync.RWMutex
)

// RegisterBackend registers a factory function for a named embedding
// backend. Backend packages call this from init(). Goroutine-safe.
func RegisterBackend(name string, f EmbeddingStoreFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	embeddingFactories[name] = f
}

// resolveBackend returns the effective backend name, defaulting to "file".
func resolveBackend(cfg *StorageConfig) string {
	if cfg.Backend == "" {
		return "file"
	}
	return cfg.Backend
}

// NewEmbeddingStore creates the embedding store selected by cfg.
func NewEmbeddingStore(cfg *StorageConfig) (EmbeddingStore, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := embeddingFactories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, kgerr.Errorf(kgerr.CodeStoreBackendUnsupported, "unsupported embedding backend: %q", backend)
	}

	dims := defaultVectorDimensions
	if cfg.VectorDimensions > 0 {
		dims = cfg.VectorDimensions
	}

	return factory(cfg.Path, dims)
}
