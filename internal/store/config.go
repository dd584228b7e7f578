// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package store

// StorageConfig controls which embedding backend the store factory uses.
type StorageConfig struct {
	Backend          string // "file" (default) or "sqlite"
	Path             string // embedding file or database path
	VectorDimensions int    // expected embedding dimensions; 0 uses the default (1536)
}
