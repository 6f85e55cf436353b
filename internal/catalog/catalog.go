// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package catalog holds the static list of recommendable movies.
//
// The catalog is loaded once at startup and never mutated, so it is safe
// for concurrent reads without synchronization. The positional index of an
// item is the same index used to address rows and columns of the similarity
// matrix; keeping the two aligned is the loader's job (see the store package).
package catalog

import (
	"errors"
	"fmt"
)

// Common catalog errors.
var (
	// ErrNotFound indicates no item matched the requested title or ID.
	ErrNotFound = errors.New("title not found in catalog")

	// ErrOutOfRange indicates a positional index outside the catalog bounds.
	ErrOutOfRange = errors.New("index out of catalog range")
)

// Item is a single recommendable movie. Immutable once loaded.
type Item struct {
	// ID is the external TMDB identifier, unique and stable across calls.
	ID int `json:"id"`

	// Title is the display title. Unique within the catalog for lookup
	// purposes; on duplicates the first occurrence wins.
	Title string `json:"title"`

	// Tags holds the precomputed feature tags the similarity matrix was
	// built from. Opaque to this service.
	Tags string `json:"tags,omitempty"`
}

// Catalog is an immutable ordered sequence of items with title and ID lookups.
type Catalog struct {
	items   []Item
	byTitle map[string]int
	byID    map[int]int
}

// New builds a catalog from an ordered item sequence.
// For duplicate titles or IDs the first occurrence is authoritative.
func New(items []Item) *Catalog {
	c := &Catalog{
		items:   items,
		byTitle: make(map[string]int, len(items)),
		byID:    make(map[int]int, len(items)),
	}

	for i, item := range items {
		if _, seen := c.byTitle[item.Title]; !seen {
			c.byTitle[item.Title] = i
		}
		if _, seen := c.byID[item.ID]; !seen {
			c.byID[item.ID] = i
		}
	}

	return c
}

// Len returns the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}

// IndexByTitle resolves a title to its positional index.
// Returns ErrNotFound when no item has that title.
func (c *Catalog) IndexByTitle(title string) (int, error) {
	idx, ok := c.byTitle[title]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, title)
	}
	return idx, nil
}

// IndexByID resolves an external item ID to its positional index.
// Returns ErrNotFound when no item has that ID.
func (c *Catalog) IndexByID(id int) (int, error) {
	idx, ok := c.byID[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return idx, nil
}

// At returns the item at the given positional index.
// Returns ErrOutOfRange for invalid indices.
func (c *Catalog) At(index int) (Item, error) {
	if index < 0 || index >= len(c.items) {
		return Item{}, fmt.Errorf("%w: %d (catalog size %d)", ErrOutOfRange, index, len(c.items))
	}
	return c.items[index], nil
}

// Titles returns all titles in catalog order.
// The returned slice is a copy; callers may not reach the internal state.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.items))
	for i, item := range c.items {
		titles[i] = item.Title
	}
	return titles
}
