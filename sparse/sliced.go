// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
)

// DefaultRowsPerBlock is the block height used by ToSlicedELL when the
// caller does not pick one.
const DefaultRowsPerBlock = 32

// SlicedELL is ELL storage sliced into blocks of RowsPerBlock consecutive
// rows, each block padded to its own width instead of the global maximum.
// Within block b, the slot'th entry of local row r lives at linear offset
// BlockStart[b] + slot*RowsPerBlock + r. The descriptor arrays carry
// Rows/RowsPerBlock + 1 blocks; the trailing block covers the remainder
// rows and is empty when Rows divides evenly.
type SlicedELL[T hwy.Floats] struct {
	Rows, Cols   int
	RowsPerBlock int
	// ColumnsPerBlock[b] is the padded width of block b.
	ColumnsPerBlock []int32
	// BlockStart[b] is the linear offset of block b's first slot.
	BlockStart []int32
	ColIndices []int32
	Values     []T
}

// Dims returns the logical (rows, cols) shape.
func (m *SlicedELL[T]) Dims() (int, int) { return m.Rows, m.Cols }

// NNZ returns the number of live (nonzero) entries.
func (m *SlicedELL[T]) NNZ() int {
	n := 0
	for _, v := range m.Values {
		if v != 0 {
			n++
		}
	}
	return n
}

func (*SlicedELL[T]) isMatrix() {}

// NumBlocks returns the block descriptor count, including the trailing
// remainder block.
func (m *SlicedELL[T]) NumBlocks() int { return m.Rows/m.RowsPerBlock + 1 }

// ToSlicedELL converts canonical CSR to sliced ELL storage with blocks of
// rowsPerBlock rows; rowsPerBlock <= 0 selects DefaultRowsPerBlock.
// Explicit zero coefficients are dropped (zero marks padding).
func (m *CSR[T]) ToSlicedELL(rowsPerBlock int) *SlicedELL[T] {
	if rowsPerBlock <= 0 {
		rowsPerBlock = DefaultRowsPerBlock
	}
	numBlocks := m.Rows/rowsPerBlock + 1

	out := &SlicedELL[T]{
		Rows:            m.Rows,
		Cols:            m.Cols,
		RowsPerBlock:    rowsPerBlock,
		ColumnsPerBlock: make([]int32, numBlocks),
		BlockStart:      make([]int32, numBlocks),
	}

	total := 0
	for b := 0; b < numBlocks; b++ {
		rowBegin := b * rowsPerBlock
		rowEnd := rowBegin + rowsPerBlock
		if rowEnd > m.Rows {
			rowEnd = m.Rows
		}
		width := 0
		for i := rowBegin; i < rowEnd; i++ {
			d := 0
			for k := m.RowOffsets[i]; k < m.RowOffsets[i+1]; k++ {
				if m.Values[k] != 0 {
					d++
				}
			}
			if d > width {
				width = d
			}
		}
		out.ColumnsPerBlock[b] = int32(width)
		out.BlockStart[b] = int32(total)
		total += width * rowsPerBlock
	}

	out.ColIndices = make([]int32, total)
	out.Values = make([]T, total)
	for b := 0; b < numBlocks; b++ {
		rowBegin := b * rowsPerBlock
		rowEnd := rowBegin + rowsPerBlock
		if rowEnd > m.Rows {
			rowEnd = m.Rows
		}
		for i := rowBegin; i < rowEnd; i++ {
			off := int(out.BlockStart[b]) + (i - rowBegin)
			for k := m.RowOffsets[i]; k < m.RowOffsets[i+1]; k++ {
				if m.Values[k] == 0 {
					continue
				}
				out.ColIndices[off] = m.ColIndices[k]
				out.Values[off] = m.Values[k]
				off += rowsPerBlock
			}
		}
	}
	return out
}

// ToSlicedELL converts triplet storage to sliced ELL via canonical CSR.
func (m *COO[T]) ToSlicedELL(rowsPerBlock int) *SlicedELL[T] {
	return m.ToCSR().ToSlicedELL(rowsPerBlock)
}

// ToDense returns the row-major dense equivalent, skipping padded slots.
func (m *SlicedELL[T]) ToDense() []T {
	dense := make([]T, m.Rows*m.Cols)
	for b := 0; b < m.NumBlocks(); b++ {
		rowBegin := b * m.RowsPerBlock
		rowEnd := rowBegin + m.RowsPerBlock
		if rowEnd > m.Rows {
			rowEnd = m.Rows
		}
		for i := rowBegin; i < rowEnd; i++ {
			off := int(m.BlockStart[b]) + (i - rowBegin)
			for slot := 0; slot < int(m.ColumnsPerBlock[b]); slot++ {
				if v := m.Values[off]; v != 0 {
					dense[i*m.Cols+int(m.ColIndices[off])] += v
				}
				off += m.RowsPerBlock
			}
		}
	}
	return dense
}

// Validate checks the block descriptors against the slot buffers and the
// column range of every live slot.
func (m *SlicedELL[T]) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("%w: %dx%d", ErrShape, m.Rows, m.Cols)
	}
	if m.RowsPerBlock <= 0 {
		return fmt.Errorf("%w: %d rows per block", ErrExtent, m.RowsPerBlock)
	}
	numBlocks := m.NumBlocks()
	if len(m.ColumnsPerBlock) != numBlocks || len(m.BlockStart) != numBlocks {
		return fmt.Errorf("%w: %d block widths, %d block starts, want %d", ErrExtent, len(m.ColumnsPerBlock), len(m.BlockStart), numBlocks)
	}
	total := 0
	for b := 0; b < numBlocks; b++ {
		if m.ColumnsPerBlock[b] < 0 {
			return fmt.Errorf("%w: block %d width %d", ErrExtent, b, m.ColumnsPerBlock[b])
		}
		if int(m.BlockStart[b]) != total {
			return fmt.Errorf("%w: block %d starts at %d, want %d", ErrOffsets, b, m.BlockStart[b], total)
		}
		total += int(m.ColumnsPerBlock[b]) * m.RowsPerBlock
	}
	if len(m.Values) != total || len(m.ColIndices) != total {
		return fmt.Errorf("%w: %d values, %d col indices, want %d", ErrExtent, len(m.Values), len(m.ColIndices), total)
	}
	// Kernels sweep every lane of a block, so a live value is only legal in a
	// lane backed by a real row.
	for b := 0; b < numBlocks; b++ {
		rowBegin := b * m.RowsPerBlock
		for r := 0; r < m.RowsPerBlock; r++ {
			off := int(m.BlockStart[b]) + r
			for slot := 0; slot < int(m.ColumnsPerBlock[b]); slot++ {
				if v := m.Values[off]; v != 0 {
					row := rowBegin + r
					if row >= m.Rows {
						return fmt.Errorf("%w: live value in padding row %d", ErrIndexRange, row)
					}
					if j := m.ColIndices[off]; j < 0 || int(j) >= m.Cols {
						return fmt.Errorf("%w: row %d slot %d col %d outside %d cols", ErrIndexRange, row, slot, j, m.Cols)
					}
				}
				off += m.RowsPerBlock
			}
		}
	}
	return nil
}
