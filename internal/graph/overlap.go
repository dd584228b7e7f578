// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package graph

import (
	"fmt"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

// Overlap reports how many candidate descriptions appear among a
// reference description list. Count may exceed the reference length
// when the candidate carries duplicates; it is never clamped.
type Overlap struct {
	Count int    `json:"count"`
	Ratio string `json:"ratio"`
}

// DescriptionSet indexes reference descriptions for membership tests.
// Matching is by exact description text, not by identifier: two
// distinct components sharing identical text are indistinguishable
// here and register as overlapping.
type DescriptionSet map[string]struct{}

// NewDescriptionSet builds a set from the given descriptions.
func NewDescriptionSet(descriptions []string) DescriptionSet {
	s := make(DescriptionSet, len(descriptions))
	for _, d := range descriptions {
		s[d] = struct{}{}
	}
	return s
}

// Contains reports whether description is in the set.
func (s DescriptionSet) Contains(description string) bool {
	_, ok := s[description]
	return ok
}

// ComputeOverlap counts the candidate descriptions found among the
// reference descriptions. The ratio denominator is always the
// reference length, even when duplicates push the count above it.
func ComputeOverlap(reference, candidate []string) Overlap {
	set := NewDescriptionSet(reference)
	count := 0
	for _, d := range candidate {
		if set.Contains(d) {
			count++
		}
	}
	return Overlap{
		Count: count,
		Ratio: fmt.Sprintf("%d/%d", count, len(reference)),
	}
}

// ComponentDescriptions extracts descriptions in component order, the
// shape the overlap calculator consumes.
func ComponentDescriptions(components []*store.LearningComponent) []string {
	descriptions := make([]string, 0, len(components))
	for _, lc := range components {
		descriptions = append(descriptions, lc.Description)
	}
	return descriptions
}
