// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
)

// Hybrid splits each row between a fixed-width ELL part holding the first
// ELLMaxNNZ entries and a CSR overflow part holding the rest. The ELL part
// follows the ELL addressing and padding conventions; the overflow part is
// compressed and carries no padding, so kernels read it without a zero test.
type Hybrid[T hwy.Floats] struct {
	Rows, Cols int
	// ELLMaxNNZ is the padded width of the ELL part.
	ELLMaxNNZ int
	// RowStride is the padded row count of the ELL part, >= Rows.
	RowStride     int
	ELLColIndices []int32
	ELLValues     []T
	// CSRRowOffsets has Rows+1 entries delimiting each row's overflow.
	CSRRowOffsets []int32
	CSRColIndices []int32
	CSRValues     []T
}

// Dims returns the logical (rows, cols) shape.
func (m *Hybrid[T]) Dims() (int, int) { return m.Rows, m.Cols }

// NNZ returns the number of live entries across both parts.
func (m *Hybrid[T]) NNZ() int {
	n := len(m.CSRValues)
	for _, v := range m.ELLValues {
		if v != 0 {
			n++
		}
	}
	return n
}

func (*Hybrid[T]) isMatrix() {}

// ToHybrid converts canonical CSR to hybrid storage. ellWidth is the padded
// width of the ELL part; ellWidth <= 0 selects the mean nonzero row degree
// rounded up, which sends the tail of unusually dense rows to the overflow
// part. Explicit zero coefficients are dropped.
func (m *CSR[T]) ToHybrid(ellWidth int) *Hybrid[T] {
	if ellWidth <= 0 {
		ellWidth = 0
		if m.Rows > 0 {
			live := 0
			for _, v := range m.Values {
				if v != 0 {
					live++
				}
			}
			ellWidth = (live + m.Rows - 1) / m.Rows
		}
	}

	out := &Hybrid[T]{
		Rows:      m.Rows,
		Cols:      m.Cols,
		ELLMaxNNZ: ellWidth,
		RowStride: alignRows(m.Rows),
	}
	out.ELLColIndices = make([]int32, ellWidth*out.RowStride)
	out.ELLValues = make([]T, ellWidth*out.RowStride)
	out.CSRRowOffsets = make([]int32, m.Rows+1)

	overflow := 0
	for i := 0; i < m.Rows; i++ {
		out.CSRRowOffsets[i] = int32(overflow)
		slot := 0
		for k := m.RowOffsets[i]; k < m.RowOffsets[i+1]; k++ {
			if m.Values[k] == 0 {
				continue
			}
			if slot < ellWidth {
				off := i + slot*out.RowStride
				out.ELLColIndices[off] = m.ColIndices[k]
				out.ELLValues[off] = m.Values[k]
				slot++
			} else {
				overflow++
			}
		}
	}
	out.CSRRowOffsets[m.Rows] = int32(overflow)

	out.CSRColIndices = make([]int32, overflow)
	out.CSRValues = make([]T, overflow)
	pos := 0
	for i := 0; i < m.Rows; i++ {
		slot := 0
		for k := m.RowOffsets[i]; k < m.RowOffsets[i+1]; k++ {
			if m.Values[k] == 0 {
				continue
			}
			if slot < ellWidth {
				slot++
				continue
			}
			out.CSRColIndices[pos] = m.ColIndices[k]
			out.CSRValues[pos] = m.Values[k]
			pos++
		}
	}
	return out
}

// ToHybrid converts triplet storage to hybrid via canonical CSR.
func (m *COO[T]) ToHybrid(ellWidth int) *Hybrid[T] { return m.ToCSR().ToHybrid(ellWidth) }

// ToDense returns the row-major dense equivalent, combining both parts.
func (m *Hybrid[T]) ToDense() []T {
	dense := make([]T, m.Rows*m.Cols)
	for i := 0; i < m.Rows; i++ {
		for slot := 0; slot < m.ELLMaxNNZ; slot++ {
			off := i + slot*m.RowStride
			if v := m.ELLValues[off]; v != 0 {
				dense[i*m.Cols+int(m.ELLColIndices[off])] += v
			}
		}
		for k := m.CSRRowOffsets[i]; k < m.CSRRowOffsets[i+1]; k++ {
			dense[i*m.Cols+int(m.CSRColIndices[k])] += m.CSRValues[k]
		}
	}
	return dense
}

// Validate checks both parts: ELL extents and live-slot column ranges, and
// CSR offset monotonicity and column ranges.
func (m *Hybrid[T]) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, m.Rows, m.Cols)
	}
	if m.ELLMaxNNZ < 0 || m.RowStride < m.Rows {
		return fmt.Errorf("%w: ELL width %d stride %d for %d rows", ErrExtent, m.ELLMaxNNZ, m.RowStride, m.Rows)
	}
	if len(m.ELLValues) != m.ELLMaxNNZ*m.RowStride || len(m.ELLColIndices) != len(m.ELLValues) {
		return fmt.Errorf("%w: %d ELL values, %d col indices, want %d", ErrExtent, len(m.ELLValues), len(m.ELLColIndices), m.ELLMaxNNZ*m.RowStride)
	}
	for i := 0; i < m.Rows; i++ {
		for slot := 0; slot < m.ELLMaxNNZ; slot++ {
			off := i + slot*m.RowStride
			if m.ELLValues[off] == 0 {
				continue
			}
			if j := m.ELLColIndices[off]; j < 0 || int(j) >= m.Cols {
				return fmt.Errorf("%w: row %d slot %d col %d outside %d cols", ErrIndexRange, i, slot, j, m.Cols)
			}
		}
	}
	for i := m.Rows; i < m.RowStride; i++ {
		for slot := 0; slot < m.ELLMaxNNZ; slot++ {
			if m.ELLValues[i+slot*m.RowStride] != 0 {
				return fmt.Errorf("%w: live value in padding row %d", ErrIndexRange, i)
			}
		}
	}

	if len(m.CSRRowOffsets) != m.Rows+1 {
		return fmt.Errorf("%w: %d overflow row offsets for %d rows", ErrExtent, len(m.CSRRowOffsets), m.Rows)
	}
	if m.CSRRowOffsets[0] != 0 {
		return fmt.Errorf("%w: first overflow offset %d, want 0", ErrOffsets, m.CSRRowOffsets[0])
	}
	for i := 0; i < m.Rows; i++ {
		if m.CSRRowOffsets[i+1] < m.CSRRowOffsets[i] {
			return fmt.Errorf("%w: overflow offsets decrease at row %d", ErrOffsets, i)
		}
	}
	if last := int(m.CSRRowOffsets[m.Rows]); last != len(m.CSRValues) {
		return fmt.Errorf("%w: last overflow offset %d, want %d", ErrOffsets, last, len(m.CSRValues))
	}
	if len(m.CSRColIndices) != len(m.CSRValues) {
		return fmt.Errorf("%w: %d overflow col indices, %d values", ErrExtent, len(m.CSRColIndices), len(m.CSRValues))
	}
	for k, j := range m.CSRColIndices {
		if j < 0 || int(j) >= m.Cols {
			return fmt.Errorf("%w: overflow entry %d col %d outside %d cols", ErrIndexRange, k, j, m.Cols)
		}
	}
	return nil
}
