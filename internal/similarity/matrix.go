// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package similarity provides the precomputed pairwise similarity matrix
// and its nearest-neighbor query.
//
// The matrix is produced by an offline process and loaded as opaque data;
// this package never mutates it. All queries are pure reads, safe for
// concurrent use without locking.
package similarity

import (
	"errors"
	"fmt"
	"sort"
)

// Query errors.
var (
	// ErrInvalidIndex indicates a row index outside the matrix bounds.
	ErrInvalidIndex = errors.New("similarity index out of bounds")

	// ErrInvalidK indicates a neighbor count that cannot be satisfied.
	ErrInvalidK = errors.New("invalid neighbor count")

	// ErrDimension indicates the backing data does not form a square matrix.
	ErrDimension = errors.New("similarity data does not match matrix dimensions")
)

// Neighbor is a single ranked result of a TopK query.
type Neighbor struct {
	// Index is the catalog position of the neighbor.
	Index int `json:"index"`

	// Score is the precomputed similarity score. Not guaranteed normalized.
	Score float64 `json:"score"`
}

// Matrix is an N×N similarity matrix over catalog positions, stored row-major.
type Matrix struct {
	n      int
	scores []float64
}

// New wraps row-major similarity data as a Matrix.
// Returns ErrDimension if len(scores) != n*n.
func New(n int, scores []float64) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrDimension, n)
	}
	if len(scores) != n*n {
		return nil, fmt.Errorf("%w: %d values for dimension %d", ErrDimension, len(scores), n)
	}
	return &Matrix{n: n, scores: scores}, nil
}

// Dim returns the matrix dimension N.
func (m *Matrix) Dim() int {
	return m.n
}

// Score returns the similarity between positions i and j.
// Panics are avoided by bounds checks at the query entry points; Score is
// only called with validated indices.
func (m *Matrix) Score(i, j int) float64 {
	return m.scores[i*m.n+j]
}

// TopK returns the k positions most similar to index, best match first.
//
// The queried index itself is always excluded, regardless of its
// self-similarity score. Results are ordered by descending score; equal
// scores are broken by the lower index first, which keeps rankings
// deterministic when the precomputed scores collide.
//
// Returns ErrInvalidIndex if index is out of bounds, ErrInvalidK if
// k <= 0 or k >= N (excluding self leaves only N-1 candidates).
func (m *Matrix) TopK(index, k int) ([]Neighbor, error) {
	if index < 0 || index >= m.n {
		return nil, fmt.Errorf("%w: %d (dimension %d)", ErrInvalidIndex, index, m.n)
	}
	if k <= 0 || k >= m.n {
		return nil, fmt.Errorf("%w: k=%d (dimension %d)", ErrInvalidK, k, m.n)
	}

	row := m.scores[index*m.n : (index+1)*m.n]

	candidates := make([]Neighbor, 0, m.n-1)
	for j, score := range row {
		if j == index {
			continue
		}
		candidates = append(candidates, Neighbor{Index: j, Score: score})
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Index < candidates[b].Index
	})

	return candidates[:k], nil
}
