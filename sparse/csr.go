// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"fmt"
	"sort"

	"github.com/ajroetker/go-highway/hwy"
)

// CSR is compressed sparse row storage. Entries of row i occupy
// Values[RowOffsets[i]:RowOffsets[i+1]] with matching ColIndices.
// Canonical matrices produced by the converters in this package additionally
// have each row sorted by column with no duplicate columns, but the compute
// kernels only rely on the offset invariant.
type CSR[T hwy.Floats] struct {
	Rows, Cols int
	// RowOffsets has length Rows+1 and is monotonically non-decreasing;
	// RowOffsets[Rows] equals the number of stored entries.
	RowOffsets []int32
	// ColIndices holds the column of each entry, length NNZ, values in [0, Cols).
	ColIndices []int32
	// Values holds the coefficients, length NNZ.
	Values []T
}

// Dims returns the logical (rows, cols) shape.
func (m *CSR[T]) Dims() (int, int) { return m.Rows, m.Cols }

// NNZ returns the number of stored entries.
func (m *CSR[T]) NNZ() int { return len(m.Values) }

func (*CSR[T]) isMatrix() {}

// ToCSR converts triplet storage to canonical CSR: entries grouped by row,
// each row sorted by column, duplicate coordinates merged additively.
// The receiver must be valid (see Validate); it is not modified.
func (m *COO[T]) ToCSR() *CSR[T] {
	// Count entries per row, then prefix-sum into offsets.
	offsets := make([]int32, m.Rows+1)
	for k := range m.Values {
		offsets[m.Coords[2*k]+1]++
	}
	for i := 0; i < m.Rows; i++ {
		offsets[i+1] += offsets[i]
	}

	// Scatter into row-grouped order. next tracks the write cursor per row.
	nnz := len(m.Values)
	cols := make([]int32, nnz)
	vals := make([]T, nnz)
	next := make([]int32, m.Rows)
	copy(next, offsets[:m.Rows])
	for k := range m.Values {
		row := m.Coords[2*k]
		at := next[row]
		cols[at] = m.Coords[2*k+1]
		vals[at] = m.Values[k]
		next[row] = at + 1
	}

	// Sort each row by column and merge duplicates in place.
	out := &CSR[T]{
		Rows:       m.Rows,
		Cols:       m.Cols,
		RowOffsets: make([]int32, m.Rows+1),
	}
	var write int32
	for i := 0; i < m.Rows; i++ {
		start, end := offsets[i], offsets[i+1]
		rowCols := cols[start:end]
		rowVals := vals[start:end]
		sort.Sort(&rowEntries[T]{cols: rowCols, vals: rowVals})

		out.RowOffsets[i] = write
		for k := range rowCols {
			if k > 0 && rowCols[k] == rowCols[k-1] {
				vals[write-1] += rowVals[k]
				continue
			}
			cols[write] = rowCols[k]
			vals[write] = rowVals[k]
			write++
		}
	}
	out.RowOffsets[m.Rows] = write
	out.ColIndices = cols[:write]
	out.Values = vals[:write]
	return out
}

// rowEntries sorts one row's (column, value) pairs by column.
type rowEntries[T hwy.Floats] struct {
	cols []int32
	vals []T
}

func (r *rowEntries[T]) Len() int           { return len(r.cols) }
func (r *rowEntries[T]) Less(i, j int) bool { return r.cols[i] < r.cols[j] }
func (r *rowEntries[T]) Swap(i, j int) {
	r.cols[i], r.cols[j] = r.cols[j], r.cols[i]
	r.vals[i], r.vals[j] = r.vals[j], r.vals[i]
}

// ToDense returns the row-major dense equivalent.
// The matrix must be valid (see Validate).
func (m *CSR[T]) ToDense() []T {
	dense := make([]T, m.Rows*m.Cols)
	for i := 0; i < m.Rows; i++ {
		for k := m.RowOffsets[i]; k < m.RowOffsets[i+1]; k++ {
			dense[i*m.Cols+int(m.ColIndices[k])] += m.Values[k]
		}
	}
	return dense
}

// Validate checks buffer extents, offset monotonicity and column ranges.
func (m *CSR[T]) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, m.Rows, m.Cols)
	}
	if len(m.RowOffsets) != m.Rows+1 {
		return fmt.Errorf("%w: %d row offsets for %d rows", ErrExtent, len(m.RowOffsets), m.Rows)
	}
	if len(m.ColIndices) != len(m.Values) {
		return fmt.Errorf("%w: %d col indices for %d values", ErrExtent, len(m.ColIndices), len(m.Values))
	}
	if m.RowOffsets[0] != 0 {
		return fmt.Errorf("%w: first offset %d", ErrOffsets, m.RowOffsets[0])
	}
	if int(m.RowOffsets[m.Rows]) != len(m.Values) {
		return fmt.Errorf("%w: last offset %d for %d values", ErrOffsets, m.RowOffsets[m.Rows], len(m.Values))
	}
	for i := 0; i < m.Rows; i++ {
		if m.RowOffsets[i] > m.RowOffsets[i+1] {
			return fmt.Errorf("%w: row %d: %d > %d", ErrOffsets, i, m.RowOffsets[i], m.RowOffsets[i+1])
		}
	}
	for k, j := range m.ColIndices {
		if j < 0 || int(j) >= m.Cols {
			return fmt.Errorf("%w: entry %d col %d outside %d cols", ErrIndexRange, k, j, m.Cols)
		}
	}
	return nil
}
