// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package store

import (
	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"
)

// ValidateRecords checks a loaded embedding record set against the file
// schema: every record needs an entity id and a non-empty vector, and all
// vectors must share one dimension. Backends call this from LoadAll so a
// schema drift surfaces as a serialization error instead of corrupting a
// later search.
func ValidateRecords(recs []EmbeddingRecord) error {
	dim := 0
	for i, rec := range recs {
		if rec.CaseIdentifierUUID == "" {
			return kgerr.Errorf(kgerr.CodeEmbeddingSchemaMismatch,
				"record %d has no caseIdentifierUUID", i)
		}
		if len(rec.Embedding) == 0 {
			return kgerr.Errorf(kgerr.CodeEmbeddingSchemaMismatch,
				"record %d (%s) has an empty embedding", i, rec.CaseIdentifierUUID)
		}
		if dim == 0 {
			dim = len(rec.Embedding)
			continue
		}
		if len(rec.Embedding) != dim {
			return kgerr.Errorf(kgerr.CodeEmbeddingSchemaMismatch,
				"record %d (%s) has dimension %d, previous records have %d",
				i, rec.CaseIdentifierUUID, len(rec.Embedding), dim)
		}
	}
	return nil
}
