// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package graph

import (
	"log/slog"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

// Engine runs traversal queries against a frozen entity store. It
// never re-sorts results by relevance; every ordering is edge
// discovery order, and ranked output is the caller's concern.
type Engine struct {
	entities store.EntityStore
	index    *RelationshipIndex
}

// NewEngine indexes the store's edges and returns a query engine.
func NewEngine(entities store.EntityStore) *Engine {
	return &Engine{
		entities: entities,
		index:    NewRelationshipIndex(entities.Edges()),
	}
}

// SupportingComponents returns the learning components whose supports
// edges target the given standard. An unknown standard id is an error;
// a known standard with no supporting edges returns an empty list.
// Edges pointing at components the store does not hold are skipped
// with a warning.
func (e *Engine) SupportingComponents(standardID string) ([]*store.LearningComponent, error) {
	if _, ok := e.entities.StandardByID(standardID); !ok {
		return nil, kgerr.New(kgerr.CodeStoreStandardNotFound, "standard not found",
			kgerr.FieldStandardID(standardID))
	}

	sources := e.index.SourcesOf(standardID, store.EdgeSupports)
	components := make([]*store.LearningComponent, 0, len(sources))
	for _, componentID := range sources {
		lc, ok := e.entities.ComponentByID(componentID)
		if !ok {
			slog.Warn("supports edge references unknown learning component",
				"componentID", componentID, "standardID", standardID)
			continue
		}
		components = append(components, lc)
	}
	return components, nil
}

// Pool restricts a traversal to a pre-filtered set of standard ids,
// typically "same jurisdiction and subject".
type Pool map[string]struct{}

// NewPool builds a pool from the given standards.
func NewPool(standards []*store.Standard) Pool {
	p := make(Pool, len(standards))
	for _, s := range standards {
		p[s.ID] = struct{}{}
	}
	return p
}

// Contains reports whether id is in the pool.
func (p Pool) Contains(id string) bool {
	_, ok := p[id]
	return ok
}

// PrerequisitesOf returns the standards whose buildsTowards edges
// target the given standard, restricted to ids in pool. A nil pool
// means unrestricted. No prerequisites is an empty list, never an
// error; unknown source ids are skipped with a warning.
func (e *Engine) PrerequisitesOf(standardID string, pool Pool) []*store.Standard {
	sources := e.index.SourcesOf(standardID, store.EdgeBuildsTowards)
	prerequisites := make([]*store.Standard, 0, len(sources))
	for _, sourceID := range sources {
		if pool != nil && !pool.Contains(sourceID) {
			continue
		}
		std, ok := e.entities.StandardByID(sourceID)
		if !ok {
			slog.Warn("buildsTowards edge references unknown standard",
				"sourceID", sourceID, "standardID", standardID)
			continue
		}
		prerequisites = append(prerequisites, std)
	}
	return prerequisites
}

// Match pairs a discovered standard with its full supporting component
// set.
type Match struct {
	Standard   *store.Standard
	Components []*store.LearningComponent
}

// MatchByComponentOverlap finds standards in the target jurisdiction
// that share at least one supporting component with the given
// component set, then expands each to its full component list.
//
// The two phases are asymmetric on purpose. Discovery narrows by
// componentIDs and jurisdiction and keeps the distinct standards in
// first-discovery order; expansion runs against the unrestricted edge
// set, so a match triggered by one shared component still reports
// every component the matched standard has. Collapsing the phases into
// one filtered join would silently drop the unshared components.
func (e *Engine) MatchByComponentOverlap(componentIDs []string, targetJurisdiction string) ([]Match, error) {
	if targetJurisdiction == "" {
		return nil, kgerr.New(kgerr.CodeStoreInvalidInput, "target jurisdiction must not be empty")
	}

	// Discovery phase.
	examined := make(map[string]struct{})
	var matchedIDs []string
	for _, componentID := range componentIDs {
		for _, standardID := range e.index.TargetsOf(componentID, store.EdgeSupports) {
			if _, done := examined[standardID]; done {
				continue
			}
			examined[standardID] = struct{}{}

			std, ok := e.entities.StandardByID(standardID)
			if !ok {
				slog.Warn("supports edge references unknown standard",
					"standardID", standardID, "componentID", componentID)
				continue
			}
			if std.Jurisdiction != targetJurisdiction {
				continue
			}
			matchedIDs = append(matchedIDs, standardID)
		}
	}

	// Expansion phase.
	matches := make([]Match, 0, len(matchedIDs))
	for _, standardID := range matchedIDs {
		std, _ := e.entities.StandardByID(standardID)
		components, err := e.SupportingComponents(standardID)
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{Standard: std, Components: components})
	}
	return matches, nil
}
