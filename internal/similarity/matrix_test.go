// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package similarity

import (
	"errors"
	"testing"
)

// sixByNine builds the 6x6 fixture whose first row exercises the
// documented tie-break: [1.0, 0.9, 0.2, 0.9, 0.5, 0.1].
func sixBySix(t *testing.T) *Matrix {
	t.Helper()

	scores := make([]float64, 36)
	copy(scores, []float64{1.0, 0.9, 0.2, 0.9, 0.5, 0.1})
	// Remaining rows are irrelevant to row-0 queries; fill symmetric-ish.
	for i := 1; i < 6; i++ {
		for j := 0; j < 6; j++ {
			scores[i*6+j] = 1.0 / float64(1+i+j)
		}
		scores[i*6+i] = 1.0
	}

	m, err := New(6, scores)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestNewRejectsWrongLength(t *testing.T) {
	if _, err := New(3, make([]float64, 8)); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
	if _, err := New(0, nil); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension for zero dimension, got %v", err)
	}
}

func TestTopKExcludesSelf(t *testing.T) {
	m := sixBySix(t)

	// Row 0 has self-similarity 1.0, the maximum in its row.
	neighbors, err := m.TopK(0, 5)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	for _, n := range neighbors {
		if n.Index == 0 {
			t.Fatalf("TopK included the query's own index: %+v", neighbors)
		}
	}
	if len(neighbors) != 5 {
		t.Errorf("len = %d, want 5", len(neighbors))
	}
}

func TestTopKTieBreakLowerIndexFirst(t *testing.T) {
	m := sixBySix(t)

	// Indices 1 and 3 tie at 0.9: lower index must rank first.
	neighbors, err := m.TopK(0, 2)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}

	if neighbors[0].Index != 1 || neighbors[0].Score != 0.9 {
		t.Errorf("first neighbor = %+v, want index 1 score 0.9", neighbors[0])
	}
	if neighbors[1].Index != 3 || neighbors[1].Score != 0.9 {
		t.Errorf("second neighbor = %+v, want index 3 score 0.9", neighbors[1])
	}
}

func TestTopKDescendingOrder(t *testing.T) {
	m := sixBySix(t)

	neighbors, err := m.TopK(0, 5)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	for i := 1; i < len(neighbors); i++ {
		if neighbors[i].Score > neighbors[i-1].Score {
			t.Errorf("scores not descending at %d: %+v", i, neighbors)
		}
	}
}

func TestTopKInvalidIndex(t *testing.T) {
	m := sixBySix(t)

	for _, idx := range []int{-1, 6, 100} {
		if _, err := m.TopK(idx, 2); !errors.Is(err, ErrInvalidIndex) {
			t.Errorf("TopK(%d, 2): expected ErrInvalidIndex, got %v", idx, err)
		}
	}
}

func TestTopKInvalidK(t *testing.T) {
	m := sixBySix(t)

	for _, k := range []int{0, -1, 6, 7} {
		if _, err := m.TopK(0, k); !errors.Is(err, ErrInvalidK) {
			t.Errorf("TopK(0, %d): expected ErrInvalidK, got %v", k, err)
		}
	}
}

func TestTopKDeterministic(t *testing.T) {
	m := sixBySix(t)

	first, err := m.TopK(0, 5)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	second, err := m.TopK(0, 5)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("rankings differ at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
