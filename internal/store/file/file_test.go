// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
	"github.com/learning-commons-org/knowledge-graph/internal/store/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []store.EmbeddingRecord {
	return []store.EmbeddingRecord{
		{CaseIdentifierUUID: "uuid-1", StatementCode: "6.RP.A.2", Embedding: []float32{0.1, 0.2, 0.3}},
		{CaseIdentifierUUID: "uuid-2", StatementCode: "7.EE.B.4", Embedding: []float32{0.4, 0.5, 0.6}},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	ctx := context.Background()

	s, err := file.New(path)
	require.NoError(t, err)
	for _, rec := range testRecords() {
		s.Append(rec)
	}
	require.NoError(t, s.PersistAll(ctx))

	// A fresh store reading the same file sees the identical records in
	// the same order.
	reopened, err := file.New(path)
	require.NoError(t, err)
	loaded, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, testRecords(), loaded)
	assert.Equal(t, testRecords(), reopened.Records())
}

func TestFileStorePersistReplacesWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	ctx := context.Background()

	first, err := file.New(path)
	require.NoError(t, err)
	for _, rec := range testRecords() {
		first.Append(rec)
	}
	require.NoError(t, first.PersistAll(ctx))

	second, err := file.New(path)
	require.NoError(t, err)
	second.Append(store.EmbeddingRecord{CaseIdentifierUUID: "uuid-9", StatementCode: "8.F.A.1", Embedding: []float32{1, 0, 0}})
	require.NoError(t, second.PersistAll(ctx))

	reopened, err := file.New(path)
	require.NoError(t, err)
	loaded, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "uuid-9", loaded[0].CaseIdentifierUUID)
}

func TestFileStorePersistEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	ctx := context.Background()

	s, err := file.New(path)
	require.NoError(t, err)
	require.NoError(t, s.PersistAll(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "embeddings.json")

	s, err := file.New(path)
	require.NoError(t, err)
	s.Append(testRecords()[0])
	require.NoError(t, s.PersistAll(context.Background()))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")

	s, err := file.New(path)
	require.NoError(t, err)
	s.Append(testRecords()[0])
	require.NoError(t, s.PersistAll(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// The on-disk keys are a wire contract shared with other tooling.
	assert.Contains(t, string(data), `"caseIdentifierUUID"`)
	assert.Contains(t, string(data), `"statementCode"`)
	assert.Contains(t, string(data), `"embedding"`)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	s, err := file.New(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	_, err = s.LoadAll(context.Background())
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeEmbeddingFileMissing))
	assert.True(t, kgerr.IsSerialization(err))
}

func TestFileStoreLoadMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0o644))

	s, err := file.New(path)
	require.NoError(t, err)

	_, err = s.LoadAll(context.Background())
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeEmbeddingDecodeFailure))
	assert.True(t, kgerr.IsSerialization(err))
}

func TestFileStoreLoadRejectsInconsistentDimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "embeddings.json")
	doc := `[
  {"caseIdentifierUUID": "uuid-1", "statementCode": "A", "embedding": [0.1, 0.2]},
  {"caseIdentifierUUID": "uuid-2", "statementCode": "B", "embedding": [0.1, 0.2, 0.3]}
]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	s, err := file.New(path)
	require.NoError(t, err)

	_, err = s.LoadAll(context.Background())
	require.Error(t, err)
	assert.True(t, kgerr.HasCode(err, kgerr.CodeEmbeddingSchemaMismatch))
}

func TestFileStoreEmptyPath(t *testing.T) {
	_, err := file.New("")
	require.Error(t, err)
	assert.True(t, kgerr.IsInvalidInput(err))
}
