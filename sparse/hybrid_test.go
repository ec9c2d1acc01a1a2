// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-sparse/sparse"
)

func hybridFixture() *sparse.CSR[float64] {
	dense := []float64{
		1, 2, 3, 4,
		0, 5, 0, 0,
		6, 0, 0, 7,
	}
	return sparse.COOFromDense(dense, 3, 4).ToCSR()
}

func TestToHybrid_DefaultWidthIsMeanDegree(t *testing.T) {
	hyb := hybridFixture().ToHybrid(0)

	// 7 live entries over 3 rows: mean degree rounds up to 3.
	require.Equal(t, 3, hyb.ELLMaxNNZ)
	require.Equal(t, 8, hyb.RowStride)

	// Only row 0 exceeds the ELL width; its 4th entry overflows.
	require.Equal(t, []int32{0, 1, 1, 1}, hyb.CSRRowOffsets)
	require.Equal(t, []int32{3}, hyb.CSRColIndices)
	require.Equal(t, []float64{4}, hyb.CSRValues)
	require.Equal(t, 7, hyb.NNZ())
	require.Equal(t, hybridFixture().ToDense(), hyb.ToDense())
	require.NoError(t, hyb.Validate())
}

func TestToHybrid_SplitsInColumnOrder(t *testing.T) {
	hyb := hybridFixture().ToHybrid(1)

	// ELL keeps the leading entry of each row.
	require.Equal(t, 1.0, hyb.ELLValues[0])
	require.Equal(t, 5.0, hyb.ELLValues[1])
	require.Equal(t, 6.0, hyb.ELLValues[2])
	require.Equal(t, int32(1), hyb.ELLColIndices[1])

	// Everything past the first entry lands in the overflow part, in order.
	require.Equal(t, []int32{0, 3, 3, 4}, hyb.CSRRowOffsets)
	require.Equal(t, []int32{1, 2, 3, 3}, hyb.CSRColIndices)
	require.Equal(t, []float64{2, 3, 4, 7}, hyb.CSRValues)
	require.NoError(t, hyb.Validate())
}

func TestToHybrid_WideELLLeavesOverflowEmpty(t *testing.T) {
	hyb := hybridFixture().ToHybrid(10)
	require.Empty(t, hyb.CSRValues)
	require.Equal(t, []int32{0, 0, 0, 0}, hyb.CSRRowOffsets)
	require.Equal(t, 7, hyb.NNZ())
	require.NoError(t, hyb.Validate())
}

func TestHybrid_Validate(t *testing.T) {
	hyb := hybridFixture().ToHybrid(0)
	hyb.CSRRowOffsets[0] = 1
	require.ErrorIs(t, hyb.Validate(), sparse.ErrOffsets)

	hyb = hybridFixture().ToHybrid(0)
	hyb.CSRColIndices[0] = 11
	require.ErrorIs(t, hyb.Validate(), sparse.ErrIndexRange)

	hyb = hybridFixture().ToHybrid(0)
	hyb.ELLValues = hyb.ELLValues[:1]
	require.ErrorIs(t, hyb.Validate(), sparse.ErrExtent)

	// A truncated offsets array is an extent problem, as in CSR, not an
	// offset-value one.
	hyb = hybridFixture().ToHybrid(0)
	hyb.CSRRowOffsets = hyb.CSRRowOffsets[:2]
	require.ErrorIs(t, hyb.Validate(), sparse.ErrExtent)

	hyb = hybridFixture().ToHybrid(0)
	hyb.ELLValues[3] = 9 // alignment row, no backing matrix row
	require.ErrorIs(t, hyb.Validate(), sparse.ErrIndexRange)
}
