// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package file implements an EmbeddingStore backed by a single JSON
// document on disk. The durable format is a JSON array of embedding
// records, human-readable and diffable, which keeps small corpora easy
// to inspect and version.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

// Store holds embedding records in memory and persists them wholesale
// to a JSON file. Append never touches disk; PersistAll replaces the
// durable set atomically via a temp file and rename.
type Store struct {
	path    string
	records []store.EmbeddingRecord
}

var _ store.EmbeddingStore = (*Store)(nil)

// New creates a file-backed embedding store rooted at path. The file
// does not need to exist yet; it is created on the first PersistAll.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, kgerr.New(kgerr.CodeStoreInvalidInput, "embedding store path must not be empty")
	}
	return &Store{path: path}, nil
}

// Append adds a record to the in-memory set. No uniqueness or
// dimension checks happen here; validation is the load-time contract.
func (s *Store) Append(rec store.EmbeddingRecord) {
	s.records = append(s.records, rec)
}

// Records returns the in-memory records in append order.
func (s *Store) Records() []store.EmbeddingRecord {
	return s.records
}

// PersistAll writes the in-memory set to disk, replacing whatever the
// file held before. The write goes to a temp file in the same
// directory and is moved into place with os.Rename, so readers never
// observe a partially written document.
func (s *Store) PersistAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("persist embeddings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return kgerr.Wrapf(err, kgerr.CodeEmbeddingPersistFailure, "create embedding directory %s", dir)
	}

	records := s.records
	if records == nil {
		records = []store.EmbeddingRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return kgerr.Wrap(err, kgerr.CodeEmbeddingPersistFailure, "encode embedding records")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return kgerr.Wrap(err, kgerr.CodeEmbeddingPersistFailure, "create temp embedding file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return kgerr.Wrap(err, kgerr.CodeEmbeddingPersistFailure, "write temp embedding file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return kgerr.Wrap(err, kgerr.CodeEmbeddingPersistFailure, "close temp embedding file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return kgerr.Wrapf(err, kgerr.CodeEmbeddingPersistFailure, "replace embedding file %s", s.path)
	}
	return nil
}

// LoadAll reads the durable set from disk, replacing the in-memory
// records. A missing file and a document that fails schema validation
// are both serialization errors; callers decide whether a fresh run
// should start from an empty store instead.
func (s *Store) LoadAll(ctx context.Context) ([]store.EmbeddingRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, kgerr.Wrapf(err, kgerr.CodeEmbeddingFileMissing, "embedding file %s not found", s.path)
		}
		return nil, kgerr.Wrapf(err, kgerr.CodeEmbeddingDecodeFailure, "read embedding file %s", s.path)
	}

	var records []store.EmbeddingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, kgerr.Wrapf(err, kgerr.CodeEmbeddingDecodeFailure, "decode embedding file %s", s.path)
	}
	if err := store.ValidateRecords(records); err != nil {
		return nil, err
	}

	s.records = records
	return s.records, nil
}

// Close releases nothing for the file backend; the handle model is
// open-per-operation.
func (s *Store) Close() error {
	return nil
}
