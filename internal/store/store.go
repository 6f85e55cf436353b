// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

// Package store loads the two pre-built artifacts Marquee serves from:
// the catalog table and the similarity matrix. Both are read exactly once
// at startup; there is no persistence beyond these read-only loads.
//
// The catalog is tabular (CSV or Parquet) and is read through an in-memory
// DuckDB instance, which handles header detection, quoting, and type
// coercion without a hand-rolled parser. The similarity matrix is a flat
// binary file (see LoadMatrix). The two artifacts must agree on size;
// a dimension mismatch is a data-integrity failure and the process must
// not serve requests in that state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // register the duckdb driver

	"github.com/kweaver87/marquee/internal/catalog"
	"github.com/kweaver87/marquee/internal/logging"
	"github.com/kweaver87/marquee/internal/similarity"
)

// ErrDataIntegrity indicates the artifacts failed to load or disagree on
// shape. Startup must abort on this error.
var ErrDataIntegrity = errors.New("data integrity error")

// LoadCatalog reads the catalog artifact into memory.
//
// Supported formats are CSV (read_csv_auto) and Parquet (read_parquet),
// selected by file extension. The table must carry at least movie_id and
// title columns; a tags column is read when present. Row order in the file
// is the positional order of the catalog and therefore of the similarity
// matrix.
func LoadCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("%w: open duckdb: %v", ErrDataIntegrity, err)
	}
	defer db.Close()

	readFn, err := readerFor(path)
	if err != nil {
		return nil, err
	}

	hasTags, err := columnExists(ctx, db, readFn, "tags")
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT movie_id, title FROM %s", readFn)
	if hasTags {
		query = fmt.Sprintf("SELECT movie_id, title, tags FROM %s", readFn)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: read catalog %s: %v", ErrDataIntegrity, path, err)
	}
	defer rows.Close()

	var items []catalog.Item
	for rows.Next() {
		var item catalog.Item
		if hasTags {
			var tags sql.NullString
			if err := rows.Scan(&item.ID, &item.Title, &tags); err != nil {
				return nil, fmt.Errorf("%w: scan catalog row: %v", ErrDataIntegrity, err)
			}
			item.Tags = tags.String
		} else {
			if err := rows.Scan(&item.ID, &item.Title); err != nil {
				return nil, fmt.Errorf("%w: scan catalog row: %v", ErrDataIntegrity, err)
			}
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate catalog rows: %v", ErrDataIntegrity, err)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: catalog %s is empty", ErrDataIntegrity, path)
	}

	logging.Info().Int("items", len(items)).Str("path", path).Msg("catalog loaded")

	return catalog.New(items), nil
}

// Load reads both artifacts and validates that the similarity matrix
// dimension equals the catalog size. This is the only supported way to
// construct the pair; it fails fast with ErrDataIntegrity on any mismatch.
func Load(ctx context.Context, catalogPath, matrixPath string) (*catalog.Catalog, *similarity.Matrix, error) {
	cat, err := LoadCatalog(ctx, catalogPath)
	if err != nil {
		return nil, nil, err
	}

	matrix, err := LoadMatrix(matrixPath)
	if err != nil {
		return nil, nil, err
	}

	if matrix.Dim() != cat.Len() {
		return nil, nil, fmt.Errorf("%w: similarity dimension %d does not match catalog size %d",
			ErrDataIntegrity, matrix.Dim(), cat.Len())
	}

	return cat, matrix, nil
}

// readerFor maps a file extension to the DuckDB table function reading it.
func readerFor(path string) (string, error) {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return fmt.Sprintf("read_csv_auto('%s')", escapePath(path)), nil
	case strings.HasSuffix(path, ".parquet"):
		return fmt.Sprintf("read_parquet('%s')", escapePath(path)), nil
	default:
		return "", fmt.Errorf("%w: unsupported catalog format %q (want .csv or .parquet)", ErrDataIntegrity, path)
	}
}

// escapePath doubles single quotes for embedding in a SQL string literal.
// Table functions cannot take bound parameters, so the path is inlined.
func escapePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}

// columnExists probes whether the artifact carries the named column.
func columnExists(ctx context.Context, db *sql.DB, readFn, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", readFn))
	if err != nil {
		return false, fmt.Errorf("%w: probe catalog columns: %v", ErrDataIntegrity, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return false, fmt.Errorf("%w: probe catalog columns: %v", ErrDataIntegrity, err)
	}

	for _, c := range cols {
		if strings.EqualFold(c, column) {
			return true, nil
		}
	}
	return false, nil
}
