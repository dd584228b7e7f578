// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package sqlite implements an EmbeddingStore backed by SQLite with
// sqlite-vec. The vec0 virtual table gives the embedding column a
// fixed float dimension enforced by the database itself; a companion
// table carries the statement code and the append position so loads
// reproduce the original persist order exactly.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

func init() {
	sqlite_vec.Auto()
}

// Compile-time interface check.
var _ store.EmbeddingStore = (*EmbeddingStore)(nil)

// EmbeddingStore implements store.EmbeddingStore backed by SQLite with
// sqlite-vec. Appends buffer in memory; PersistAll replaces the durable
// set in a single transaction.
type EmbeddingStore struct {
	db         *sql.DB
	path       string
	dimensions int

	// existed tracks whether a durable set is present at path: true when
	// the database file predated this handle or a PersistAll succeeded.
	// sql.Open creates the file eagerly, so LoadAll cannot stat instead.
	existed bool

	records []store.EmbeddingRecord
}

// NewEmbeddingStore opens (or creates) a SQLite database at dbPath and
// initialises the vec0 virtual table and companion code table.
func NewEmbeddingStore(dbPath string, dimensions int) (*EmbeddingStore, error) {
	if dbPath == "" {
		return nil, kgerr.New(kgerr.CodeStoreInvalidInput, "embedding store path must not be empty")
	}
	if dimensions <= 0 {
		return nil, kgerr.Errorf(kgerr.CodeStoreInvalidInput, "vector dimensions must be positive, got %d", dimensions)
	}

	_, statErr := os.Stat(dbPath)
	existed := statErr == nil

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if err := migrateEmbeddings(db, dimensions); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating embedding tables: %w", err)
	}

	return &EmbeddingStore{db: db, path: dbPath, dimensions: dimensions, existed: existed}, nil
}

func migrateEmbeddings(db *sql.DB, dimensions int) error {
	vecDDL := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS embeddings USING vec0(id TEXT PRIMARY KEY, embedding float[%d])`,
		dimensions,
	)
	if _, err := db.Exec(vecDDL); err != nil {
		return fmt.Errorf("creating embeddings virtual table: %w", err)
	}

	const codesDDL = `
CREATE TABLE IF NOT EXISTS embedding_codes (
	id             TEXT PRIMARY KEY,
	statement_code TEXT NOT NULL DEFAULT '',
	position       INTEGER NOT NULL
)`
	if _, err := db.Exec(codesDDL); err != nil {
		return fmt.Errorf("creating embedding_codes table: %w", err)
	}

	return nil
}

// Append adds a record to the in-memory set. No uniqueness or dimension
// checks happen here; the column type rejects bad dimensions at persist.
func (s *EmbeddingStore) Append(rec store.EmbeddingRecord) {
	s.records = append(s.records, rec)
}

// Records returns the in-memory records in append order.
func (s *EmbeddingStore) Records() []store.EmbeddingRecord {
	return s.records
}

// PersistAll replaces the durable set with the in-memory set in one
// transaction, so a failed persist leaves the previous set intact.
func (s *EmbeddingStore) PersistAll(ctx context.Context) error {
	for i, rec := range s.records {
		if len(rec.Embedding) != s.dimensions {
			return kgerr.Errorf(kgerr.CodeEmbeddingSchemaMismatch,
				"record %d (%s) has %d dimensions, store expects %d", i, rec.CaseIdentifierUUID, len(rec.Embedding), s.dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM embeddings`); err != nil {
		return kgerr.Wrap(err, kgerr.CodeEmbeddingPersistFailure, "clear embeddings")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM embedding_codes`); err != nil {
		return kgerr.Wrap(err, kgerr.CodeEmbeddingPersistFailure, "clear embedding codes")
	}

	for i, rec := range s.records {
		blob, err := sqlite_vec.SerializeFloat32(rec.Embedding)
		if err != nil {
			return kgerr.Wrapf(err, kgerr.CodeEmbeddingPersistFailure, "serialize embedding %s", rec.CaseIdentifierUUID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO embeddings(id, embedding) VALUES (?, ?)`, rec.CaseIdentifierUUID, blob); err != nil {
			return kgerr.Wrapf(err, kgerr.CodeEmbeddingPersistFailure, "insert embedding %s", rec.CaseIdentifierUUID)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO embedding_codes(id, statement_code, position) VALUES (?, ?, ?)`,
			rec.CaseIdentifierUUID, rec.StatementCode, i); err != nil {
			return kgerr.Wrapf(err, kgerr.CodeEmbeddingPersistFailure, "insert embedding code %s", rec.CaseIdentifierUUID)
		}
	}

	if err := tx.Commit(); err != nil {
		return kgerr.Wrap(err, kgerr.CodeEmbeddingPersistFailure, "commit embedding persist")
	}

	s.existed = true
	return nil
}

// LoadAll reads the durable set in persist order, replacing the
// in-memory records.
func (s *EmbeddingStore) LoadAll(ctx context.Context) ([]store.EmbeddingRecord, error) {
	if !s.existed {
		return nil, kgerr.Errorf(kgerr.CodeEmbeddingFileMissing, "embedding database %s has no persisted records", s.path)
	}

	const q = `SELECT e.id, e.embedding, c.statement_code
FROM embeddings e
JOIN embedding_codes c ON c.id = e.id
ORDER BY c.position`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, kgerr.Wrap(err, kgerr.CodeEmbeddingDecodeFailure, "query embeddings")
	}
	defer func() { _ = rows.Close() }()

	var records []store.EmbeddingRecord
	for rows.Next() {
		var rec store.EmbeddingRecord
		var blob []byte

		if err := rows.Scan(&rec.CaseIdentifierUUID, &blob, &rec.StatementCode); err != nil {
			return nil, kgerr.Wrap(err, kgerr.CodeEmbeddingDecodeFailure, "scan embedding row")
		}

		rec.Embedding, err = deserializeFloat32(blob)
		if err != nil {
			return nil, kgerr.Wrapf(err, kgerr.CodeEmbeddingDecodeFailure, "decode embedding %s", rec.CaseIdentifierUUID)
		}

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, kgerr.Wrap(err, kgerr.CodeEmbeddingDecodeFailure, "iterate embedding rows")
	}

	if err := store.ValidateRecords(records); err != nil {
		return nil, err
	}

	s.records = records
	return s.records, nil
}

// Close closes the underlying database connection.
func (s *EmbeddingStore) Close() error {
	return s.db.Close()
}

// deserializeFloat32 decodes the little-endian float32 blob format
// sqlite-vec stores for float[] columns.
func deserializeFloat32(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 4", len(blob))
	}
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return out, nil
}
