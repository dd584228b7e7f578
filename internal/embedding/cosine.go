// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// Package embedding ranks stored embedding vectors against a query and
// drives batch embedding runs against an external provider.
package embedding

import "math"

// Cosine returns the cosine similarity of u and v, accumulating in float64.
// ok is false when either vector has zero norm; the caller decides how to
// score such a pair. Vectors must have equal length.
func Cosine(u, v []float32) (score float64, ok bool) {
	var dot, normU, normV float64
	for i := range u {
		du, dv := float64(u[i]), float64(v[i])
		dot += du * dv
		normU += du * du
		normV += dv * dv
	}
	if normU == 0 || normV == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normU) * math.Sqrt(normV)), true
}

// zeroNorm reports whether all components of v are zero.
func zeroNorm(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
