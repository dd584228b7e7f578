// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package graph answers traversal queries over a frozen standards
// snapshot. The index and engine are built once per process run and
// never mutated, so all methods are safe for unrestricted concurrent
// reads.
package graph

import (
	"github.com/learning-commons-org/knowledge-graph/internal/store"
)

type edgeKey struct {
	id       string
	edgeType store.EdgeType
}

// RelationshipIndex provides O(1) adjacency lookups over the edge set.
// Bucket order preserves edge discovery order; every downstream
// ordering guarantee rests on that, so buckets are never re-sorted.
type RelationshipIndex struct {
	forward map[edgeKey][]string
	reverse map[edgeKey][]string
}

// NewRelationshipIndex builds forward and reverse adjacency in one
// O(E) pass. Edges may reference entities the stores do not hold;
// resolution happens at traversal time.
func NewRelationshipIndex(edges []store.RelationshipEdge) *RelationshipIndex {
	idx := &RelationshipIndex{
		forward: make(map[edgeKey][]string),
		reverse: make(map[edgeKey][]string),
	}
	for _, e := range edges {
		fk := edgeKey{id: e.SourceID, edgeType: e.Type}
		idx.forward[fk] = append(idx.forward[fk], e.TargetID)
		rk := edgeKey{id: e.TargetID, edgeType: e.Type}
		idx.reverse[rk] = append(idx.reverse[rk], e.SourceID)
	}
	return idx
}

// TargetsOf returns the target ids of edges of the given type leaving
// id, in edge discovery order.
func (x *RelationshipIndex) TargetsOf(id string, t store.EdgeType) []string {
	return x.forward[edgeKey{id: id, edgeType: t}]
}

// SourcesOf returns the source ids of edges of the given type entering
// id, in edge discovery order.
func (x *RelationshipIndex) SourcesOf(id string, t store.EdgeType) []string {
	return x.reverse[edgeKey{id: id, edgeType: t}]
}
