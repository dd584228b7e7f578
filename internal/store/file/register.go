// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package file

import (
	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

func init() {
	store.RegisterBackend("file", newEmbeddingStore)
}

func newEmbeddingStore(path string, vectorDims int) (store.EmbeddingStore, error) {
	// The JSON document carries its own dimensions; vectorDims only
	// matters for backends with a fixed column type.
	_ = vectorDims
	return New(path)
}
