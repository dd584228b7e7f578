// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

package graph_test

import (
	"testing"

	kgerr "github.com/learning-commons-org/knowledge-graph/pkg/errors"

	"github.com/learning-commons-org/knowledge-graph/internal/graph"
	"github.com/learning-commons-org/knowledge-graph/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// crossJurisdictionFixture wires the canonical cross-jurisdiction
// shape: S1 in jurisdiction M supported by C1 and C2; T1 in
// jurisdiction T supported by C1 and C3; T2 in jurisdiction T
// supported by C2.
func crossJurisdictionFixture() *graph.Engine {
	standards := []*store.Standard{
		{ID: "S1", StatementCode: "M.1", Jurisdiction: "M", Description: "source standard"},
		{ID: "T1", StatementCode: "T.1", Jurisdiction: "T", Description: "first target"},
		{ID: "T2", StatementCode: "T.2", Jurisdiction: "T", Description: "second target"},
	}
	components := []*store.LearningComponent{
		{ID: "C1", Description: "shared concept one"},
		{ID: "C2", Description: "shared concept two"},
		{ID: "C3", Description: "target-only concept"},
	}
	edges := []store.RelationshipEdge{
		{SourceID: "C1", TargetID: "S1", Type: store.EdgeSupports},
		{SourceID: "C2", TargetID: "S1", Type: store.EdgeSupports},
		{SourceID: "C1", TargetID: "T1", Type: store.EdgeSupports},
		{SourceID: "C3", TargetID: "T1", Type: store.EdgeSupports},
		{SourceID: "C2", TargetID: "T2", Type: store.EdgeSupports},
	}
	return graph.NewEngine(store.NewMemoryEntityStore(standards, components, edges, nil))
}

func componentIDs(components []*store.LearningComponent) []string {
	ids := make([]string, 0, len(components))
	for _, lc := range components {
		ids = append(ids, lc.ID)
	}
	return ids
}

func TestSupportingComponents(t *testing.T) {
	e := crossJurisdictionFixture()

	components, err := e.SupportingComponents("S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1", "C2"}, componentIDs(components))
}

func TestSupportingComponentsUnknownStandard(t *testing.T) {
	e := crossJurisdictionFixture()

	_, err := e.SupportingComponents("missing")
	require.Error(t, err)
	assert.True(t, kgerr.IsNotFound(err))
}

func TestSupportingComponentsNoEdgesIsEmpty(t *testing.T) {
	standards := []*store.Standard{{ID: "S1", Jurisdiction: "M"}}
	e := graph.NewEngine(store.NewMemoryEntityStore(standards, nil, nil, nil))

	components, err := e.SupportingComponents("S1")
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestSupportingComponentsSkipsDanglingComponent(t *testing.T) {
	standards := []*store.Standard{{ID: "S1", Jurisdiction: "M"}}
	components := []*store.LearningComponent{{ID: "C1", Description: "known"}}
	edges := []store.RelationshipEdge{
		{SourceID: "ghost", TargetID: "S1", Type: store.EdgeSupports},
		{SourceID: "C1", TargetID: "S1", Type: store.EdgeSupports},
	}
	e := graph.NewEngine(store.NewMemoryEntityStore(standards, components, edges, nil))

	got, err := e.SupportingComponents("S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"C1"}, componentIDs(got))
}

func TestMatchByComponentOverlapScenario(t *testing.T) {
	e := crossJurisdictionFixture()

	matches, err := e.MatchByComponentOverlap([]string{"C1", "C2"}, "T")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Discovery order: C1 finds T1 first, then C2 finds T2.
	assert.Equal(t, "T1", matches[0].Standard.ID)
	assert.Equal(t, "T2", matches[1].Standard.ID)

	// Expansion is unrestricted: T1's list includes C3 even though only
	// C1 triggered the match.
	assert.Equal(t, []string{"C1", "C3"}, componentIDs(matches[0].Components))
	assert.Equal(t, []string{"C2"}, componentIDs(matches[1].Components))
}

func TestMatchByComponentOverlapInputOrderInvariantSet(t *testing.T) {
	e := crossJurisdictionFixture()

	forward, err := e.MatchByComponentOverlap([]string{"C1", "C2"}, "T")
	require.NoError(t, err)
	reversed, err := e.MatchByComponentOverlap([]string{"C2", "C1"}, "T")
	require.NoError(t, err)

	asSet := func(matches []graph.Match) map[string]bool {
		set := make(map[string]bool)
		for _, m := range matches {
			set[m.Standard.ID] = true
		}
		return set
	}
	assert.Equal(t, asSet(forward), asSet(reversed))

	// Order, by contrast, follows first discovery.
	assert.Equal(t, "T2", reversed[0].Standard.ID)
	assert.Equal(t, "T1", reversed[1].Standard.ID)
}

func TestMatchByComponentOverlapDeduplicatesStandards(t *testing.T) {
	// T1 is supported by both C1 and C3; feeding both triggers T1 once.
	e := crossJurisdictionFixture()

	matches, err := e.MatchByComponentOverlap([]string{"C1", "C3"}, "T")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "T1", matches[0].Standard.ID)
}

func TestMatchByComponentOverlapFiltersJurisdiction(t *testing.T) {
	e := crossJurisdictionFixture()

	// C1 also supports S1 (jurisdiction M); a T-scoped match must not
	// return it.
	matches, err := e.MatchByComponentOverlap([]string{"C1"}, "T")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "T1", matches[0].Standard.ID)
}

func TestMatchByComponentOverlapEmptyInputs(t *testing.T) {
	e := crossJurisdictionFixture()

	matches, err := e.MatchByComponentOverlap(nil, "T")
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = e.MatchByComponentOverlap([]string{"unknown-component"}, "T")
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = e.MatchByComponentOverlap([]string{"C1"}, "")
	require.Error(t, err)
	assert.True(t, kgerr.IsInvalidInput(err))
}

func TestPrerequisitesOf(t *testing.T) {
	standards := []*store.Standard{
		{ID: "A", Jurisdiction: "M", AcademicSubject: "Mathematics"},
		{ID: "B", Jurisdiction: "M", AcademicSubject: "Mathematics"},
		{ID: "C", Jurisdiction: "X", AcademicSubject: "Mathematics"},
		{ID: "target", Jurisdiction: "M", AcademicSubject: "Mathematics"},
	}
	edges := []store.RelationshipEdge{
		{SourceID: "A", TargetID: "target", Type: store.EdgeBuildsTowards},
		{SourceID: "B", TargetID: "target", Type: store.EdgeBuildsTowards},
		{SourceID: "C", TargetID: "target", Type: store.EdgeBuildsTowards},
		{SourceID: "ghost", TargetID: "target", Type: store.EdgeBuildsTowards},
	}
	es := store.NewMemoryEntityStore(standards, nil, edges, nil)
	e := graph.NewEngine(es)

	// Pool restricted to jurisdiction M drops C; the dangling source is
	// skipped either way.
	pool := graph.NewPool(es.FindStandards(store.StandardQuery{Jurisdiction: "M"}))
	prereqs := e.PrerequisitesOf("target", pool)
	require.Len(t, prereqs, 2)
	assert.Equal(t, "A", prereqs[0].ID)
	assert.Equal(t, "B", prereqs[1].ID)

	// Nil pool is unrestricted.
	unrestricted := e.PrerequisitesOf("target", nil)
	assert.Len(t, unrestricted, 3)

	// No prerequisites is an empty list, not an error.
	assert.Empty(t, e.PrerequisitesOf("A", pool))
}

func TestEngineOrderingFollowsEdgeDiscovery(t *testing.T) {
	standards := []*store.Standard{{ID: "S", Jurisdiction: "M"}}
	components := []*store.LearningComponent{
		{ID: "C3", Description: "third in file"},
		{ID: "C1", Description: "first in file"},
		{ID: "C2", Description: "second in file"},
	}
	// Edge order deliberately disagrees with component file order and
	// lexical order; edge order must win.
	edges := []store.RelationshipEdge{
		{SourceID: "C2", TargetID: "S", Type: store.EdgeSupports},
		{SourceID: "C3", TargetID: "S", Type: store.EdgeSupports},
		{SourceID: "C1", TargetID: "S", Type: store.EdgeSupports},
	}
	e := graph.NewEngine(store.NewMemoryEntityStore(standards, components, edges, nil))

	got, err := e.SupportingComponents("S")
	require.NoError(t, err)
	assert.Equal(t, []string{"C2", "C3", "C1"}, componentIDs(got))
}
