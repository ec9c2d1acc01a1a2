// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package pipelined

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/ajroetker/go-sparse/sparse"
)

// CGMatVec computes the fused product Ap = A*p together with <Ap, Ap> and
// <p, Ap>, dispatching on the concrete storage format of A. The inner
// products land in element 0 of the buffer's ApAp and PAp segments.
//
// A must be square; p and Ap must have row-count length.
// Panics on a matrix format this package has no kernel for.
func CGMatVec[T hwy.Floats](a sparse.Matrix[T], p, Ap []T, buf ReductionBuffer[T]) {
	switch m := a.(type) {
	case *sparse.CSR[T]:
		CGMatVecCSR(m, p, Ap, buf)
	case *sparse.COO[T]:
		CGMatVecCOO(m, p, Ap, buf)
	case *sparse.ELL[T]:
		CGMatVecELL(m, p, Ap, buf)
	case *sparse.SlicedELL[T]:
		CGMatVecSlicedELL(m, p, Ap, buf)
	case *sparse.Hybrid[T]:
		CGMatVecHybrid(m, p, Ap, buf)
	default:
		panic(fmt.Sprintf("pipelined: no matvec kernel for %T", a))
	}
}

// ---------------------------------------------------------------------------
// CSR
// ---------------------------------------------------------------------------

// CGMatVecCSR is the CSR kernel behind CGMatVec. Rows are processed in
// order and each row's dot product feeds Ap and both inner products before
// the next row starts, so results are bitwise reproducible.
func CGMatVecCSR[T hwy.Floats](a *sparse.CSR[T], p, Ap []T, buf ReductionBuffer[T]) {
	seg := buf.SegmentLen()
	innerProdApAp, innerProdPAp := csrRowRange(a, p, Ap, 0, a.Rows)
	buf[seg] = innerProdApAp
	buf[2*seg] = innerProdPAp
}

// csrRowRange runs the fused CSR product over rows [rowStart, rowEnd) and
// returns that range's contribution to <Ap, Ap> and <p, Ap>.
func csrRowRange[T hwy.Floats](a *sparse.CSR[T], p, Ap []T, rowStart, rowEnd int) (apAp, pAp T) {
	for row := rowStart; row < rowEnd; row++ {
		var dot T
		valP := p[row]

		end := a.RowOffsets[row+1]
		for i := a.RowOffsets[row]; i < end; i++ {
			dot += a.Values[i] * p[a.ColIndices[i]]
		}

		Ap[row] = dot
		apAp += dot * dot
		pAp += valP * dot
	}
	return apAp, pAp
}

// ---------------------------------------------------------------------------
// COO
// ---------------------------------------------------------------------------

// CGMatVecCOO is the COO kernel behind CGMatVec. Triplet storage is too
// weakly ordered to fuse the inner products into the scatter, so the kernel
// zero-fills Ap, scatters all entries, and then runs a separate dense
// reduction pass over Ap and p.
func CGMatVecCOO[T hwy.Floats](a *sparse.COO[T], p, Ap []T, buf ReductionBuffer[T]) {
	seg := buf.SegmentLen()

	// Ap cannot be assumed zero on entry.
	clear(Ap)
	for k := range a.Values {
		Ap[a.Coords[2*k]] += a.Values[k] * p[a.Coords[2*k+1]]
	}

	innerProdApAp, innerProdPAp := dualDot(Ap, p)
	buf[seg] = innerProdApAp
	buf[2*seg] = innerProdPAp
}

// dualDot computes <ap, ap> and <ap, p> in one sweep using hwy primitives,
// with a scalar tail for the remainder lanes.
func dualDot[T hwy.Floats](ap, p []T) (apAp, pAp T) {
	sumApAp := hwy.Zero[T]()
	sumPAp := hwy.Zero[T]()
	lanes := sumApAp.NumLanes()

	var i int
	for i = 0; i+lanes <= len(ap); i += lanes {
		vAp := hwy.Load(ap[i:])
		vP := hwy.Load(p[i:])
		sumApAp = hwy.MulAdd(vAp, vAp, sumApAp)
		sumPAp = hwy.MulAdd(vAp, vP, sumPAp)
	}

	apAp = hwy.ReduceSum(sumApAp)
	pAp = hwy.ReduceSum(sumPAp)
	for ; i < len(ap); i++ {
		apAp += ap[i] * ap[i]
		pAp += ap[i] * p[i]
	}
	return apAp, pAp
}

// ---------------------------------------------------------------------------
// ELL
// ---------------------------------------------------------------------------

// CGMatVecELL is the ELL kernel behind CGMatVec. Zero-valued slots are
// padding and are skipped without touching their column index.
func CGMatVecELL[T hwy.Floats](a *sparse.ELL[T], p, Ap []T, buf ReductionBuffer[T]) {
	seg := buf.SegmentLen()
	innerProdApAp, innerProdPAp := ellRowRange(a, p, Ap, 0, a.Rows)
	buf[seg] = innerProdApAp
	buf[2*seg] = innerProdPAp
}

// ellRowRange runs the fused ELL product over rows [rowStart, rowEnd) and
// returns that range's contribution to <Ap, Ap> and <p, Ap>.
func ellRowRange[T hwy.Floats](a *sparse.ELL[T], p, Ap []T, rowStart, rowEnd int) (apAp, pAp T) {
	for row := rowStart; row < rowEnd; row++ {
		var sum T
		valP := p[row]

		for slot := 0; slot < a.MaxNNZ; slot++ {
			offset := row + slot*a.RowStride
			if val := a.Values[offset]; val != 0 {
				sum += p[a.ColIndices[offset]] * val
			}
		}

		Ap[row] = sum
		apAp += sum * sum
		pAp += valP * sum
	}
	return apAp, pAp
}

// ---------------------------------------------------------------------------
// Sliced ELL
// ---------------------------------------------------------------------------

// CGMatVecSlicedELL is the sliced-ELL kernel behind CGMatVec. Each block is
// swept slot-major into a per-block accumulator, then flushed row by row
// into Ap and the inner products. The trailing descriptor block covers the
// remainder rows; lanes past the last row are skipped on flush.
func CGMatVecSlicedELL[T hwy.Floats](a *sparse.SlicedELL[T], p, Ap []T, buf ReductionBuffer[T]) {
	seg := buf.SegmentLen()
	innerProdApAp, innerProdPAp := sellBlockRange(a, p, Ap, 0, a.NumBlocks())
	buf[seg] = innerProdApAp
	buf[2*seg] = innerProdPAp
}

// sellBlockRange runs the fused sliced-ELL product over blocks
// [blockStart, blockEnd) and returns that range's contribution to
// <Ap, Ap> and <p, Ap>.
func sellBlockRange[T hwy.Floats](a *sparse.SlicedELL[T], p, Ap []T, blockStart, blockEnd int) (apAp, pAp T) {
	blockAcc := make([]T, a.RowsPerBlock)

	for block := blockStart; block < blockEnd; block++ {
		width := int(a.ColumnsPerBlock[block])
		clear(blockAcc)

		for slot := 0; slot < width; slot++ {
			strideStart := int(a.BlockStart[block]) + slot*a.RowsPerBlock
			for r := 0; r < a.RowsPerBlock; r++ {
				if val := a.Values[strideStart+r]; val != 0 {
					blockAcc[r] += p[a.ColIndices[strideStart+r]] * val
				}
			}
		}

		firstRow := block * a.RowsPerBlock
		for r := 0; r < a.RowsPerBlock; r++ {
			row := firstRow + r
			if row >= a.Rows {
				break
			}
			rowResult := blockAcc[r]

			Ap[row] = rowResult
			apAp += rowResult * rowResult
			pAp += p[row] * rowResult
		}
	}
	return apAp, pAp
}

// ---------------------------------------------------------------------------
// Hybrid
// ---------------------------------------------------------------------------

// CGMatVecHybrid is the hybrid kernel behind CGMatVec. Each row sums its
// padded ELL part (zero slots skipped) and then its compressed overflow
// part, which needs no zero test.
func CGMatVecHybrid[T hwy.Floats](a *sparse.Hybrid[T], p, Ap []T, buf ReductionBuffer[T]) {
	seg := buf.SegmentLen()
	innerProdApAp, innerProdPAp := hybridRowRange(a, p, Ap, 0, a.Rows)
	buf[seg] = innerProdApAp
	buf[2*seg] = innerProdPAp
}

// hybridRowRange runs the fused hybrid product over rows [rowStart, rowEnd)
// and returns that range's contribution to <Ap, Ap> and <p, Ap>.
func hybridRowRange[T hwy.Floats](a *sparse.Hybrid[T], p, Ap []T, rowStart, rowEnd int) (apAp, pAp T) {
	for row := rowStart; row < rowEnd; row++ {
		valP := p[row]
		var sum T

		for slot := 0; slot < a.ELLMaxNNZ; slot++ {
			offset := row + slot*a.RowStride
			if val := a.ELLValues[offset]; val != 0 {
				sum += p[a.ELLColIndices[offset]] * val
			}
		}

		for k := a.CSRRowOffsets[row]; k < a.CSRRowOffsets[row+1]; k++ {
			sum += p[a.CSRColIndices[k]] * a.CSRValues[k]
		}

		Ap[row] = sum
		apAp += sum * sum
		pAp += valP * sum
	}
	return apAp, pAp
}
