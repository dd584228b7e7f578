// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package store

import (
	"log/slog"
)

// Compile-time interface check.
var _ EntityStore = (*MemoryEntityStore)(nil)

// MemoryEntityStore is the in-memory EntityStore built once from a
// snapshot. All collections are frozen at construction; slices keep load
// order and maps give O(1) id lookup.
type MemoryEntityStore struct {
	standards  []*Standard
	components []*LearningComponent
	edges      []RelationshipEdge
	frameworks []*Framework

	standardsByID   map[string]*Standard
	standardsByCode map[string][]*Standard
	componentsByID  map[string]*LearningComponent
}

// NewMemoryEntityStore builds the frozen entity store. Rows with a
// duplicate id are skipped with a warning; the first occurrence wins.
// Edges are kept as given, dangling endpoints included.
func NewMemoryEntityStore(standards []*Standard, components []*LearningComponent, edges []RelationshipEdge, frameworks []*Framework) *MemoryEntityStore {
	s := &MemoryEntityStore{
		edges:           edges,
		frameworks:      frameworks,
		standardsByID:   make(map[string]*Standard, len(standards)),
		standardsByCode: make(map[string][]*Standard),
		componentsByID:  make(map[string]*LearningComponent, len(components)),
	}

	for _, std := range standards {
		if _, exists := s.standardsByID[std.ID]; exists {
			slog.Warn("skipping standard with duplicate id", "id", std.ID, "statement_code", std.StatementCode)
			continue
		}
		s.standardsByID[std.ID] = std
		s.standardsByCode[std.StatementCode] = append(s.standardsByCode[std.StatementCode], std)
		s.standards = append(s.standards, std)
	}

	for _, comp := range components {
		if _, exists := s.componentsByID[comp.ID]; exists {
			slog.Warn("skipping learning component with duplicate id", "id", comp.ID)
			continue
		}
		s.componentsByID[comp.ID] = comp
		s.components = append(s.components, comp)
	}

	return s
}

func (s *MemoryEntityStore) StandardByID(id string) (*Standard, bool) {
	std, ok := s.standardsByID[id]
	return std, ok
}

func (s *MemoryEntityStore) StandardsByCode(code string) []*Standard {
	return s.standardsByCode[code]
}

func (s *MemoryEntityStore) ComponentByID(id string) (*LearningComponent, bool) {
	comp, ok := s.componentsByID[id]
	return comp, ok
}

func (s *MemoryEntityStore) Standards() []*Standard {
	return s.standards
}

func (s *MemoryEntityStore) Components() []*LearningComponent {
	return s.components
}

func (s *MemoryEntityStore) Edges() []RelationshipEdge {
	return s.edges
}

func (s *MemoryEntityStore) Frameworks() []*Framework {
	return s.frameworks
}

func (s *MemoryEntityStore) FindStandards(q StandardQuery) []*Standard {
	var out []*Standard
	for _, std := range s.standards {
		if q.Matches(std) {
			out = append(out, std)
		}
	}
	return out
}

func (s *MemoryEntityStore) FindFrameworks(q FrameworkQuery) []*Framework {
	var out []*Framework
	for _, fw := range s.frameworks {
		if q.Matches(fw) {
			out = append(out, fw)
		}
	}
	return out
}

func (s *MemoryEntityStore) Counts() Counts {
	return Counts{
		Standards:  len(s.standards),
		Components: len(s.components),
		Edges:      len(s.edges),
		Frameworks: len(s.frameworks),
	}
}
