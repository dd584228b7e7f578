// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package store

import (
	"encoding/json"
	"strings"
)

// --- Edge types ---

// EdgeType identifies the directed relationship kind between entities.
type EdgeType string

const (
	// EdgeSupports points from a LearningComponent to the Standard it supports.
	EdgeSupports EdgeType = "supports"

	// EdgeBuildsTowards points from a prerequisite Standard to the Standard
	// it builds toward.
	EdgeBuildsTowards EdgeType = "buildsTowards"
)

// --- Grade levels ---

// GradeLevelState distinguishes the three decode outcomes of a standard's
// grade-level column. The raw column is a JSON array of grade labels that
// may be missing entirely or fail to parse; callers must be able to tell
// those cases apart instead of treating both as "no grades".
type GradeLevelState string

const (
	GradeLevelsAbsent    GradeLevelState = "absent"
	GradeLevelsMalformed GradeLevelState = "malformed"
	GradeLevelsPresent   GradeLevelState = "present"
)

// GradeLevels is the decoded grade-level set of a Standard.
type GradeLevels struct {
	State  GradeLevelState
	Labels []string // populated only when State is GradeLevelsPresent
}

// ParseGradeLevels decodes a raw grade-level column value. An empty or
// JSON-null value is Absent; anything that does not decode as a JSON array
// of strings is Malformed. The caller is responsible for surfacing
// Malformed results as warnings.
func ParseGradeLevels(raw string) GradeLevels {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return GradeLevels{State: GradeLevelsAbsent}
	}

	var labels []string
	if err := json.Unmarshal([]byte(trimmed), &labels); err != nil {
		return GradeLevels{State: GradeLevelsMalformed}
	}

	return GradeLevels{State: GradeLevelsPresent, Labels: labels}
}

// ContainsAny reports whether the grade set is present and intersects
// labels. Absent and Malformed sets never match.
func (g GradeLevels) ContainsAny(labels []string) bool {
	if g.State != GradeLevelsPresent {
		return false
	}
	for _, have := range g.Labels {
		for _, want := range labels {
			if have == want {
				return true
			}
		}
	}
	return false
}

// --- Entity types ---

// Standard is a curriculum statement identified by a jurisdiction-scoped
// statement code. Immutable after load; ID is unique within the store.
type Standard struct {
	ID              string // caseIdentifierUUID in the snapshot
	StatementCode   string // human-readable code, not unique across jurisdictions
	Jurisdiction    string
	AcademicSubject string
	Description     string // optional
	StatementType   string // normalizedStatementType: "Standard" vs "Standard Grouping"
	GradeLevels     GradeLevels
}

// LearningComponent is a finer-grained skill or concept that can support
// one or more standards. Immutable after load; ID is unique.
type LearningComponent struct {
	ID          string // identifier in the snapshot
	Description string // optional
}

// RelationshipEdge is a directed, typed edge between two entity ids.
// Endpoints are not required to reference loaded entities; dangling edges
// are tolerated by every consumer.
type RelationshipEdge struct {
	SourceID string
	TargetID string
	Type     EdgeType
}

// Framework is the metadata record of a standards framework (one
// jurisdiction + subject document the standards belong to).
type Framework struct {
	ID              string
	Name            string
	Jurisdiction    string
	AcademicSubject string
}

// --- Queries ---

// StandardQuery filters the standard collection. Zero-valued fields match
// everything. GradeLevels matches only standards whose grade set is
// present and intersects the given labels.
type StandardQuery struct {
	Jurisdiction    string
	AcademicSubject string
	StatementType   string
	GradeLevels     []string
	HasDescription  bool // keep only standards with a non-empty description
}

// Matches reports whether s satisfies every set field of the query.
func (q StandardQuery) Matches(s *Standard) bool {
	if q.Jurisdiction != "" && s.Jurisdiction != q.Jurisdiction {
		return false
	}
	if q.AcademicSubject != "" && s.AcademicSubject != q.AcademicSubject {
		return false
	}
	if q.StatementType != "" && s.StatementType != q.StatementType {
		return false
	}
	if len(q.GradeLevels) > 0 && !s.GradeLevels.ContainsAny(q.GradeLevels) {
		return false
	}
	if q.HasDescription && strings.TrimSpace(s.Description) == "" {
		return false
	}
	return true
}

// FrameworkQuery filters the framework collection. Zero-valued fields
// match everything.
type FrameworkQuery struct {
	Jurisdiction    string
	AcademicSubject string
}

// Matches reports whether f satisfies every set field of the query.
func (q FrameworkQuery) Matches(f *Framework) bool {
	if q.Jurisdiction != "" && f.Jurisdiction != q.Jurisdiction {
		return false
	}
	if q.AcademicSubject != "" && f.AcademicSubject != q.AcademicSubject {
		return false
	}
	return true
}

// --- Embedding records ---

// EmbeddingRecord pairs a standard with the vector embedding of its
// description. The JSON field names are the on-disk embedding file schema
// and must not change.
type EmbeddingRecord struct {
	CaseIdentifierUUID string    `json:"caseIdentifierUUID"`
	StatementCode      string    `json:"statementCode"`
	Embedding          []float32 `json:"embedding"`
}

// Counts reports collection sizes for status and diagnostic surfaces.
type Counts struct {
	Standards  int
	Components int
	Edges      int
	Frameworks int
}
