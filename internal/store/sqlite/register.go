// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package sqlite

import (
	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", newEmbeddingStore)
}

func newEmbeddingStore(path string, vectorDims int) (store.EmbeddingStore, error) {
	return NewEmbeddingStore(path, vectorDims)
}
