// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
)

// ellRowAlignment pads the internal row count of ELL-family storage so that
// each column of slots starts on a fixed boundary.
const ellRowAlignment = 8

// ELL is fixed-width padded row storage in column-major order: the slot'th
// entry of a row lives at linear offset row + slot*RowStride in both Values
// and ColIndices. Unused slots hold value zero and are skipped by kernels
// without reading their column index; a stored zero therefore means
// "no entry" (see the package padding convention).
type ELL[T hwy.Floats] struct {
	Rows, Cols int
	// MaxNNZ is the padded width: every row owns exactly MaxNNZ slots.
	MaxNNZ int
	// RowStride is the padded row count, >= Rows. Values and ColIndices have
	// length MaxNNZ*RowStride.
	RowStride  int
	ColIndices []int32
	Values     []T
}

// Dims returns the logical (rows, cols) shape.
func (m *ELL[T]) Dims() (int, int) { return m.Rows, m.Cols }

// NNZ returns the number of live (nonzero) entries. It scans the slot
// buffer, so it is O(MaxNNZ*RowStride).
func (m *ELL[T]) NNZ() int {
	n := 0
	for _, v := range m.Values {
		if v != 0 {
			n++
		}
	}
	return n
}

func (*ELL[T]) isMatrix() {}

// alignRows rounds rows up to the storage alignment boundary.
func alignRows(rows int) int {
	if rows == 0 {
		return 0
	}
	return (rows + ellRowAlignment - 1) &^ (ellRowAlignment - 1)
}

// ToELL converts canonical CSR to fixed-width ELL storage. width is the
// padded row width; width <= 0 selects the maximum nonzero row degree.
// Explicit zero coefficients are dropped (zero marks padding in ELL).
// Panics if width is positive but smaller than the densest row.
func (m *CSR[T]) ToELL(width int) *ELL[T] {
	need := m.maxDegree()
	if width <= 0 {
		width = need
	} else if width < need {
		panic(fmt.Sprintf("sparse: ELL width %d smaller than densest row (%d)", width, need))
	}

	out := &ELL[T]{
		Rows:      m.Rows,
		Cols:      m.Cols,
		MaxNNZ:    width,
		RowStride: alignRows(m.Rows),
	}
	out.ColIndices = make([]int32, width*out.RowStride)
	out.Values = make([]T, width*out.RowStride)
	for i := 0; i < m.Rows; i++ {
		slot := 0
		for k := m.RowOffsets[i]; k < m.RowOffsets[i+1]; k++ {
			if m.Values[k] == 0 {
				continue
			}
			off := i + slot*out.RowStride
			out.ColIndices[off] = m.ColIndices[k]
			out.Values[off] = m.Values[k]
			slot++
		}
	}
	return out
}

// ToELL converts triplet storage to ELL via canonical CSR.
// See (*CSR).ToELL for the width convention.
func (m *COO[T]) ToELL(width int) *ELL[T] { return m.ToCSR().ToELL(width) }

// maxDegree returns the largest count of nonzero coefficients in any row.
func (m *CSR[T]) maxDegree() int {
	deg := 0
	for i := 0; i < m.Rows; i++ {
		d := 0
		for k := m.RowOffsets[i]; k < m.RowOffsets[i+1]; k++ {
			if m.Values[k] != 0 {
				d++
			}
		}
		if d > deg {
			deg = d
		}
	}
	return deg
}

// ToDense returns the row-major dense equivalent, skipping padded slots.
func (m *ELL[T]) ToDense() []T {
	dense := make([]T, m.Rows*m.Cols)
	for i := 0; i < m.Rows; i++ {
		for slot := 0; slot < m.MaxNNZ; slot++ {
			off := i + slot*m.RowStride
			if v := m.Values[off]; v != 0 {
				dense[i*m.Cols+int(m.ColIndices[off])] += v
			}
		}
	}
	return dense
}

// Validate checks buffer extents, the stride convention and the column range
// of every live slot.
func (m *ELL[T]) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, m.Rows, m.Cols)
	}
	if m.MaxNNZ < 0 || m.RowStride < m.Rows {
		return fmt.Errorf("%w: width %d stride %d for %d rows", ErrExtent, m.MaxNNZ, m.RowStride, m.Rows)
	}
	if len(m.Values) != m.MaxNNZ*m.RowStride || len(m.ColIndices) != len(m.Values) {
		return fmt.Errorf("%w: %d values, %d col indices, want %d", ErrExtent, len(m.Values), len(m.ColIndices), m.MaxNNZ*m.RowStride)
	}
	for i := 0; i < m.Rows; i++ {
		for slot := 0; slot < m.MaxNNZ; slot++ {
			off := i + slot*m.RowStride
			if m.Values[off] == 0 {
				continue
			}
			if j := m.ColIndices[off]; j < 0 || int(j) >= m.Cols {
				return fmt.Errorf("%w: row %d slot %d col %d outside %d cols", ErrIndexRange, i, slot, j, m.Cols)
			}
		}
	}
	// Alignment rows past Rows are storage only; NNZ counts every nonzero
	// slot, so live values there would corrupt the count.
	for i := m.Rows; i < m.RowStride; i++ {
		for slot := 0; slot < m.MaxNNZ; slot++ {
			if m.Values[i+slot*m.RowStride] != 0 {
				return fmt.Errorf("%w: live value in padding row %d", ErrIndexRange, i)
			}
		}
	}
	return nil
}
