// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
)

// COO is coordinate (triplet) storage. Coords holds interleaved (row, col)
// pairs, so entry k has row Coords[2k], column Coords[2k+1] and value
// Values[k]. Entries are unordered; duplicate coordinates are legal and
// represent the sum of their values.
type COO[T hwy.Floats] struct {
	Rows, Cols int
	// Coords holds interleaved (row, col) index pairs, length 2*NNZ.
	Coords []int32
	// Values holds one coefficient per coordinate pair, length NNZ.
	Values []T
}

// NewCOO returns an empty rows x cols triplet matrix.
// Panics if either dimension is negative.
func NewCOO[T hwy.Floats](rows, cols int) *COO[T] {
	if rows < 0 || cols < 0 {
		panic("sparse: negative dimension")
	}
	return &COO[T]{Rows: rows, Cols: cols}
}

// Append adds the entry (i, j, v). Duplicate coordinates accumulate
// additively when the matrix is converted or multiplied.
// Panics if (i, j) lies outside the matrix.
func (m *COO[T]) Append(i, j int, v T) {
	if i < 0 || i >= m.Rows {
		panic("sparse: row index out of range")
	}
	if j < 0 || j >= m.Cols {
		panic("sparse: column index out of range")
	}
	m.Coords = append(m.Coords, int32(i), int32(j))
	m.Values = append(m.Values, v)
}

// COOFromDense builds triplet storage from a row-major dense matrix,
// keeping only nonzero coefficients.
// Panics if len(dense) < rows*cols.
func COOFromDense[T hwy.Floats](dense []T, rows, cols int) *COO[T] {
	if len(dense) < rows*cols {
		panic("sparse: dense slice too small")
	}
	m := NewCOO[T](rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := dense[i*cols+j]; v != 0 {
				m.Append(i, j, v)
			}
		}
	}
	return m
}

// Dims returns the logical (rows, cols) shape.
func (m *COO[T]) Dims() (int, int) { return m.Rows, m.Cols }

// NNZ returns the number of stored entries, counting duplicates separately.
func (m *COO[T]) NNZ() int { return len(m.Values) }

func (*COO[T]) isMatrix() {}

// ToDense returns the row-major dense equivalent, accumulating duplicate
// coordinates. The matrix must be valid (see Validate).
func (m *COO[T]) ToDense() []T {
	dense := make([]T, m.Rows*m.Cols)
	for k := range m.Values {
		dense[int(m.Coords[2*k])*m.Cols+int(m.Coords[2*k+1])] += m.Values[k]
	}
	return dense
}

// Validate checks buffer extents and index ranges. Matrices built through
// NewCOO/Append are always valid; Validate is for buffers assembled
// elsewhere.
func (m *COO[T]) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, m.Rows, m.Cols)
	}
	if len(m.Coords) != 2*len(m.Values) {
		return fmt.Errorf("%w: %d coords for %d values", ErrExtent, len(m.Coords), len(m.Values))
	}
	for k := range m.Values {
		i, j := m.Coords[2*k], m.Coords[2*k+1]
		if i < 0 || int(i) >= m.Rows {
			return fmt.Errorf("%w: entry %d row %d outside %d rows", ErrIndexRange, k, i, m.Rows)
		}
		if j < 0 || int(j) >= m.Cols {
			return fmt.Errorf("%w: entry %d col %d outside %d cols", ErrIndexRange, k, j, m.Cols)
		}
	}
	return nil
}
