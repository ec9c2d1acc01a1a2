// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-sparse/sparse"
)

func TestToCSR_Canonicalizes(t *testing.T) {
	// Unordered entries with a duplicate at (1, 0) and an empty row 2.
	m := sparse.NewCOO[float64](4, 3)
	m.Append(3, 2, 7)
	m.Append(1, 2, 3)
	m.Append(1, 0, 1)
	m.Append(0, 1, 5)
	m.Append(1, 0, 2)

	csr := m.ToCSR()
	require.NoError(t, csr.Validate())
	require.Equal(t, []int32{0, 1, 3, 3, 4}, csr.RowOffsets)
	require.Equal(t, []int32{1, 0, 2, 2}, csr.ColIndices)
	require.Equal(t, []float64{5, 3, 3, 7}, csr.Values)
	require.Equal(t, 4, csr.NNZ())
}

func TestToCSR_RowsSortedByColumn(t *testing.T) {
	m := sparse.NewCOO[float64](1, 5)
	m.Append(0, 4, 4)
	m.Append(0, 1, 1)
	m.Append(0, 3, 3)
	m.Append(0, 0, 0.5)

	csr := m.ToCSR()
	require.Equal(t, []int32{0, 1, 3, 4}, csr.ColIndices)
	require.Equal(t, []float64{0.5, 1, 3, 4}, csr.Values)
}

func TestCSR_ToDenseRoundTrip(t *testing.T) {
	dense := []float32{
		0, 2, 0, 0,
		1, 0, 0, 4,
		0, 0, 0, 0,
		0, 3, 0, 9,
	}
	csr := sparse.COOFromDense(dense, 4, 4).ToCSR()
	require.Equal(t, dense, csr.ToDense())
}

func TestToCSR_Empty(t *testing.T) {
	csr := sparse.NewCOO[float64](3, 3).ToCSR()
	require.NoError(t, csr.Validate())
	require.Equal(t, []int32{0, 0, 0, 0}, csr.RowOffsets)
	require.Equal(t, 0, csr.NNZ())
}

func TestCSR_Validate(t *testing.T) {
	bad := &sparse.CSR[float64]{Rows: 2, Cols: 2, RowOffsets: []int32{0, 1}}
	require.ErrorIs(t, bad.Validate(), sparse.ErrExtent)

	bad = &sparse.CSR[float64]{
		Rows: 2, Cols: 2,
		RowOffsets: []int32{0, 2, 1},
		ColIndices: []int32{0, 1},
		Values:     []float64{1, 2},
	}
	require.ErrorIs(t, bad.Validate(), sparse.ErrOffsets)

	bad = &sparse.CSR[float64]{
		Rows: 2, Cols: 2,
		RowOffsets: []int32{1, 1, 2},
		ColIndices: []int32{0, 1},
		Values:     []float64{1, 2},
	}
	require.ErrorIs(t, bad.Validate(), sparse.ErrOffsets)

	bad = &sparse.CSR[float64]{
		Rows: 2, Cols: 2,
		RowOffsets: []int32{0, 1, 2},
		ColIndices: []int32{0, 3},
		Values:     []float64{1, 2},
	}
	require.ErrorIs(t, bad.Validate(), sparse.ErrIndexRange)
}
