// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package store

import "context"

// EntityStore provides read access to the frozen snapshot collections.
// Implementations are built once per process and never mutated afterwards,
// so every method is safe for unlimited concurrent readers.
type EntityStore interface {
	// StandardByID returns the standard for a caseIdentifierUUID.
	StandardByID(id string) (*Standard, bool)

	// StandardsByCode returns every standard carrying the statement code,
	// in load order. Statement codes are not unique across jurisdictions.
	StandardsByCode(code string) []*Standard

	// ComponentByID returns the learning component for an identifier.
	ComponentByID(id string) (*LearningComponent, bool)

	// Standards returns all standards in load order.
	Standards() []*Standard

	// Components returns all learning components in load order.
	Components() []*LearningComponent

	// Edges returns all relationship edges in load order, including edges
	// whose endpoints reference nothing in the other collections.
	Edges() []RelationshipEdge

	// Frameworks returns all framework metadata records in load order.
	Frameworks() []*Framework

	// FindStandards returns the standards matching q, in load order.
	FindStandards(q StandardQuery) []*Standard

	// FindFrameworks returns the frameworks matching q, in load order.
	FindFrameworks(q FrameworkQuery) []*Framework

	// Counts reports the collection sizes.
	Counts() Counts
}

// EmbeddingStore holds the embedding record set. The in-memory set is
// append-only during a generation run; the durable set is replaced
// wholesale by PersistAll so a concurrent reader only ever observes a
// fully written set. Append performs no existence or overwrite checks.
type EmbeddingStore interface {
	// Append adds one record to the in-memory set.
	Append(rec EmbeddingRecord)

	// Records returns the in-memory set in append order.
	Records() []EmbeddingRecord

	// PersistAll atomically replaces the durable set with the current
	// in-memory set.
	PersistAll(ctx context.Context) error

	// LoadAll reads the full durable set, replaces the in-memory set with
	// it, and returns it in stored order. Missing or schema-mismatched
	// targets fail with a serialization error.
	LoadAll(ctx context.Context) ([]EmbeddingRecord, error)

	// Close releases backend resources.
	Close() error
}
