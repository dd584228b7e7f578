// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package embedding

import (
	"log/slog"
	"sort"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// Result pairs a stored embedding record with its similarity to the query.
type Result struct {
	Record store.EmbeddingRecord `json:"record"`
	Score  float64               `json:"score"`
}

// SearchEngine ranks a fixed set of embedding records by cosine similarity.
// Records keep their load order, which decides ties.
type SearchEngine struct {
	records   []store.EmbeddingRecord
	dimension int
}

// NewSearchEngine validates the records and indexes them for search.
func NewSearchEngine(records []store.EmbeddingRecord) (*SearchEngine, error) {
	if err := store.ValidateRecords(records); err != nil {
		return nil, err
	}

	dimension := 0
	if len(records) > 0 {
		dimension = len(records[0].Embedding)
	}
	return &SearchEngine{records: records, dimension: dimension}, nil
}

// Size returns the number of indexed records.
func (e *SearchEngine) Size() int { return len(e.records) }

// Dimension returns the vector dimension of the indexed records,
// or 0 when the engine holds none.
func (e *SearchEngine) Dimension() int { return e.dimension }

// Search returns the k records most similar to the query, highest score
// first. Ties keep load order. k larger than the record count returns
// everything; k of zero returns an empty slice. A zero-norm vector on
// either side scores the pair 0 rather than failing the search.
func (e *SearchEngine) Search(query []float32, k int) ([]Result, error) {
	if k < 0 {
		return nil, kgerr.Errorf(kgerr.CodeSearchRequestInvalid,
			"result count must not be negative, got %d", k)
	}
	if k == 0 || len(e.records) == 0 {
		return []Result{}, nil
	}
	if len(query) != e.dimension {
		return nil, kgerr.Errorf(kgerr.CodeSearchDimensionMismatch,
			"query has dimension %d, stored embeddings have %d", len(query), e.dimension)
	}

	queryZero := zeroNorm(query)
	if queryZero {
		slog.Warn("query embedding has zero norm, all similarities clamp to 0")
	}

	results := make([]Result, 0, len(e.records))
	for _, rec := range e.records {
		score, ok := Cosine(query, rec.Embedding)
		if !ok {
			if !queryZero {
				slog.Warn("stored embedding has zero norm, similarity clamps to 0",
					"caseIdentifierUUID", rec.CaseIdentifierUUID)
			}
			score = 0
		}
		results = append(results, Result{Record: rec, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}
