// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-sparse/sparse"
)

func slicedFixture(t *testing.T) *sparse.SlicedELL[float64] {
	t.Helper()
	m := sparse.NewCOO[float64](5, 5)
	m.Append(0, 0, 1)
	m.Append(1, 0, 2)
	m.Append(1, 1, 3)
	// row 2 empty
	m.Append(3, 4, 4)
	m.Append(4, 0, 5)
	m.Append(4, 2, 6)
	m.Append(4, 4, 7)
	return m.ToSlicedELL(2)
}

func TestToSlicedELL_BlockDescriptors(t *testing.T) {
	sell := slicedFixture(t)

	// 5 rows in blocks of 2: two full blocks plus the remainder block.
	require.Equal(t, 3, sell.NumBlocks())
	require.Equal(t, []int32{2, 1, 3}, sell.ColumnsPerBlock)
	require.Equal(t, []int32{0, 4, 6}, sell.BlockStart)
	require.Len(t, sell.Values, 12)
	require.Equal(t, 7, sell.NNZ())
	require.NoError(t, sell.Validate())
}

func TestToSlicedELL_Layout(t *testing.T) {
	sell := slicedFixture(t)

	// Block 0, stride 2: slot s of local row r is at BlockStart[0] + s*2 + r.
	require.Equal(t, 1.0, sell.Values[0]) // row 0, slot 0
	require.Equal(t, 2.0, sell.Values[1]) // row 1, slot 0
	require.Equal(t, 0.0, sell.Values[2]) // row 0, slot 1: padding
	require.Equal(t, 3.0, sell.Values[3]) // row 1, slot 1
	require.Equal(t, int32(1), sell.ColIndices[3])

	// Block 1 holds only row 3's single entry.
	require.Equal(t, 0.0, sell.Values[4])
	require.Equal(t, 4.0, sell.Values[5])
	require.Equal(t, int32(4), sell.ColIndices[5])

	// Block 2 covers the lone remainder row, still with stride RowsPerBlock.
	require.Equal(t, 5.0, sell.Values[6])
	require.Equal(t, 6.0, sell.Values[8])
	require.Equal(t, 7.0, sell.Values[10])
}

func TestToSlicedELL_EvenRowsTrailingBlockEmpty(t *testing.T) {
	dense := []float64{
		1, 0,
		0, 2,
		3, 0,
		0, 4,
	}
	sell := sparse.COOFromDense(dense, 4, 2).ToSlicedELL(2)

	require.Equal(t, 3, sell.NumBlocks())
	require.Equal(t, int32(0), sell.ColumnsPerBlock[2])
	require.Equal(t, sell.BlockStart[2], int32(len(sell.Values)))
	require.Equal(t, dense, sell.ToDense())
	require.NoError(t, sell.Validate())
}

func TestToSlicedELL_DefaultBlockHeight(t *testing.T) {
	sell := sparse.NewCOO[float64](10, 10).ToSlicedELL(0)
	require.Equal(t, sparse.DefaultRowsPerBlock, sell.RowsPerBlock)
	require.Equal(t, 1, sell.NumBlocks())
}

func TestSlicedELL_Validate(t *testing.T) {
	sell := slicedFixture(t)
	require.NoError(t, sell.Validate())

	sell.BlockStart[1] = 3
	require.ErrorIs(t, sell.Validate(), sparse.ErrOffsets)

	sell = slicedFixture(t)
	sell.ColumnsPerBlock = sell.ColumnsPerBlock[:2]
	require.ErrorIs(t, sell.Validate(), sparse.ErrExtent)

	sell = slicedFixture(t)
	sell.ColIndices[0] = 9
	require.ErrorIs(t, sell.Validate(), sparse.ErrIndexRange)

	// The trailing block's second lane has no backing row; a live value
	// there would be swept into a row past Rows.
	sell = slicedFixture(t)
	sell.Values[int(sell.BlockStart[2])+1] = 9
	require.ErrorIs(t, sell.Validate(), sparse.ErrIndexRange)
}
