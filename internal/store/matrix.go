// Marquee - Movie Recommendation Service
// Copyright 2026 Kris W. (kweaver87)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kweaver87/marquee

package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/kweaver87/marquee/internal/logging"
	"github.com/kweaver87/marquee/internal/similarity"
)

// matrixMagic identifies a Marquee similarity matrix file.
//
// File layout, all little-endian:
//
//	[6]byte  magic "MQSIM1"
//	uint32   N (matrix dimension)
//	N*N      float64 scores, row-major
//
// The format is produced by the offline pipeline that also emits the
// catalog table; row/column positions refer to catalog row order.
const matrixMagic = "MQSIM1"

// maxMatrixDim bounds the accepted dimension so a corrupt header cannot
// drive an enormous allocation. 65536^2 float64s is already 32 GiB.
const maxMatrixDim = 1 << 16

// LoadMatrix reads a similarity matrix artifact from disk.
// Any structural problem (bad magic, truncated data, trailing bytes,
// non-finite scores in the header check) yields ErrDataIntegrity.
func LoadMatrix(path string) (*similarity.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open similarity matrix: %v", ErrDataIntegrity, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 1<<20)

	magic := make([]byte, len(matrixMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: read matrix magic: %v", ErrDataIntegrity, err)
	}
	if string(magic) != matrixMagic {
		return nil, fmt.Errorf("%w: bad matrix magic %q", ErrDataIntegrity, magic)
	}

	var dim uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("%w: read matrix dimension: %v", ErrDataIntegrity, err)
	}
	if dim == 0 || dim > maxMatrixDim {
		return nil, fmt.Errorf("%w: implausible matrix dimension %d", ErrDataIntegrity, dim)
	}

	n := int(dim)
	scores := make([]float64, n*n)

	buf := make([]byte, 8)
	for i := range scores {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("%w: truncated matrix data at cell %d: %v", ErrDataIntegrity, i, err)
		}
		scores[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}

	// Trailing bytes mean the header lied about the dimension.
	if _, err := r.ReadByte(); err == nil {
		return nil, fmt.Errorf("%w: similarity matrix has trailing data beyond %dx%d", ErrDataIntegrity, n, n)
	}

	m, err := similarity.New(n, scores)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	logging.Info().Int("dimension", n).Str("path", path).Msg("similarity matrix loaded")

	return m, nil
}
