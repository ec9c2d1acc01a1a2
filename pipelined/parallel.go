// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package pipelined

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/ajroetker/go-sparse/sparse"
)

// Parallel tuning parameters.
const (
	// MinParallelVectorSize is the minimum element count before the fused
	// vector update and the COO reduction pass run on the pool. The loop
	// bodies are memory bound, so below this the pool dispatch overhead
	// costs more than it saves.
	MinParallelVectorSize = 8192

	// MinParallelNNZ is the minimum stored-slot count before the fused
	// product kernels run on the pool.
	MinParallelNNZ = 32768

	// RowsPerStrip is the number of rows one worker processes per strip in
	// the row-parallel product kernels. Sparse rows carry far fewer
	// operations than dense ones, so strips are larger than dense kernels
	// would use to amortize the per-strip dispatch.
	RowsPerStrip = 512

	// ElemsPerStrip is the element strip for the fused vector update and
	// the COO dense reduction.
	ElemsPerStrip = 8192

	// BlocksPerStrip is the block strip for the sliced-ELL kernel.
	BlocksPerStrip = 16
)

// stripSums holds one strip's contribution to the two fused inner products.
type stripSums[T hwy.Floats] struct {
	apAp T
	pAp  T
}

// writeStripSums folds per-strip partials into the ApAp and PAp segments.
// Folding follows strip order, so a run with the same strip layout combines
// partials identically regardless of which worker produced them.
func writeStripSums[T hwy.Floats](buf ReductionBuffer[T], partials []stripSums[T]) {
	seg := buf.SegmentLen()
	var apAp, pAp T
	for _, s := range partials {
		apAp += s.apAp
		pAp += s.pAp
	}
	buf[seg] = apAp
	buf[2*seg] = pAp
}

// ParallelCGVectorUpdate is CGVectorUpdate over element strips of the pool's
// workers. The vector updates are element-wise and land bitwise identical to
// the sequential kernel; the accumulated <r, r> combines per-strip sums, so
// it may differ from the sequential result by rounding.
//
// Falls back to the sequential kernel when pool is nil or the vectors are
// shorter than MinParallelVectorSize.
func ParallelCGVectorUpdate[T hwy.Floats](pool *workerpool.Pool, result, p, r, Ap []T, alpha, beta T, buf ReductionBuffer[T]) {
	n := len(result)
	if pool == nil || n < MinParallelVectorSize {
		CGVectorUpdate(result, p, r, Ap, alpha, beta, buf)
		return
	}

	numStrips := (n + ElemsPerStrip - 1) / ElemsPerStrip
	partials := make([]T, numStrips)
	pool.ParallelForAtomic(numStrips, func(s int) {
		start := s * ElemsPerStrip
		end := min(start+ElemsPerStrip, n)
		partials[s] = updateRange(result, p, r, Ap, alpha, beta, start, end)
	})

	var innerProdR T
	for _, v := range partials {
		innerProdR += v
	}
	buf[0] = innerProdR
}

// ParallelCGMatVec is CGMatVec on the pool's workers, dispatching on the
// concrete storage format of A. Ap is bitwise identical to the sequential
// kernels (each row is still one worker's fixed-order sum); the fused inner
// products combine per-strip partials in strip order and may differ from the
// sequential result by rounding.
//
// Falls back to the sequential kernels when pool is nil or the matrix is
// below the parallel thresholds.
func ParallelCGMatVec[T hwy.Floats](pool *workerpool.Pool, a sparse.Matrix[T], p, Ap []T, buf ReductionBuffer[T]) {
	switch m := a.(type) {
	case *sparse.CSR[T]:
		ParallelCGMatVecCSR(pool, m, p, Ap, buf)
	case *sparse.COO[T]:
		ParallelCGMatVecCOO(pool, m, p, Ap, buf)
	case *sparse.ELL[T]:
		ParallelCGMatVecELL(pool, m, p, Ap, buf)
	case *sparse.SlicedELL[T]:
		ParallelCGMatVecSlicedELL(pool, m, p, Ap, buf)
	case *sparse.Hybrid[T]:
		ParallelCGMatVecHybrid(pool, m, p, Ap, buf)
	default:
		panic(fmt.Sprintf("pipelined: no matvec kernel for %T", a))
	}
}

// ParallelCGMatVecCSR runs the CSR kernel over row strips.
func ParallelCGMatVecCSR[T hwy.Floats](pool *workerpool.Pool, a *sparse.CSR[T], p, Ap []T, buf ReductionBuffer[T]) {
	if pool == nil || a.NNZ() < MinParallelNNZ {
		CGMatVecCSR(a, p, Ap, buf)
		return
	}

	numStrips := (a.Rows + RowsPerStrip - 1) / RowsPerStrip
	partials := make([]stripSums[T], numStrips)
	pool.ParallelForAtomic(numStrips, func(s int) {
		rowStart := s * RowsPerStrip
		rowEnd := min(rowStart+RowsPerStrip, a.Rows)
		apAp, pAp := csrRowRange(a, p, Ap, rowStart, rowEnd)
		partials[s] = stripSums[T]{apAp: apAp, pAp: pAp}
	})
	writeStripSums(buf, partials)
}

// ParallelCGMatVecCOO runs the COO kernel with a parallel reduction pass.
// The scatter stays sequential: triplet entries are unordered, so any split
// can hit the same output row from two workers.
func ParallelCGMatVecCOO[T hwy.Floats](pool *workerpool.Pool, a *sparse.COO[T], p, Ap []T, buf ReductionBuffer[T]) {
	if pool == nil || a.NNZ() < MinParallelNNZ {
		CGMatVecCOO(a, p, Ap, buf)
		return
	}

	clear(Ap)
	for k := range a.Values {
		Ap[a.Coords[2*k]] += a.Values[k] * p[a.Coords[2*k+1]]
	}

	n := len(Ap)
	numStrips := (n + ElemsPerStrip - 1) / ElemsPerStrip
	partials := make([]stripSums[T], numStrips)
	pool.ParallelForAtomic(numStrips, func(s int) {
		start := s * ElemsPerStrip
		end := min(start+ElemsPerStrip, n)
		apAp, pAp := dualDot(Ap[start:end], p[start:end])
		partials[s] = stripSums[T]{apAp: apAp, pAp: pAp}
	})
	writeStripSums(buf, partials)
}

// ParallelCGMatVecELL runs the ELL kernel over row strips. The threshold
// counts padded slots, since the kernel sweeps padding too.
func ParallelCGMatVecELL[T hwy.Floats](pool *workerpool.Pool, a *sparse.ELL[T], p, Ap []T, buf ReductionBuffer[T]) {
	if pool == nil || a.Rows*a.MaxNNZ < MinParallelNNZ {
		CGMatVecELL(a, p, Ap, buf)
		return
	}

	numStrips := (a.Rows + RowsPerStrip - 1) / RowsPerStrip
	partials := make([]stripSums[T], numStrips)
	pool.ParallelForAtomic(numStrips, func(s int) {
		rowStart := s * RowsPerStrip
		rowEnd := min(rowStart+RowsPerStrip, a.Rows)
		apAp, pAp := ellRowRange(a, p, Ap, rowStart, rowEnd)
		partials[s] = stripSums[T]{apAp: apAp, pAp: pAp}
	})
	writeStripSums(buf, partials)
}

// ParallelCGMatVecSlicedELL runs the sliced-ELL kernel over block strips.
// Blocks own disjoint row ranges, so strips of whole blocks never contend
// on Ap; each strip carries its own block accumulator.
func ParallelCGMatVecSlicedELL[T hwy.Floats](pool *workerpool.Pool, a *sparse.SlicedELL[T], p, Ap []T, buf ReductionBuffer[T]) {
	if pool == nil || len(a.Values) < MinParallelNNZ {
		CGMatVecSlicedELL(a, p, Ap, buf)
		return
	}

	numBlocks := a.NumBlocks()
	numStrips := (numBlocks + BlocksPerStrip - 1) / BlocksPerStrip
	partials := make([]stripSums[T], numStrips)
	pool.ParallelForAtomic(numStrips, func(s int) {
		blockStart := s * BlocksPerStrip
		blockEnd := min(blockStart+BlocksPerStrip, numBlocks)
		apAp, pAp := sellBlockRange(a, p, Ap, blockStart, blockEnd)
		partials[s] = stripSums[T]{apAp: apAp, pAp: pAp}
	})
	writeStripSums(buf, partials)
}

// ParallelCGMatVecHybrid runs the hybrid kernel over row strips. The
// threshold counts padded ELL slots plus overflow entries.
func ParallelCGMatVecHybrid[T hwy.Floats](pool *workerpool.Pool, a *sparse.Hybrid[T], p, Ap []T, buf ReductionBuffer[T]) {
	if pool == nil || a.Rows*a.ELLMaxNNZ+len(a.CSRValues) < MinParallelNNZ {
		CGMatVecHybrid(a, p, Ap, buf)
		return
	}

	numStrips := (a.Rows + RowsPerStrip - 1) / RowsPerStrip
	partials := make([]stripSums[T], numStrips)
	pool.ParallelForAtomic(numStrips, func(s int) {
		rowStart := s * RowsPerStrip
		rowEnd := min(rowStart+RowsPerStrip, a.Rows)
		apAp, pAp := hybridRowRange(a, p, Ap, rowStart, rowEnd)
		partials[s] = stripSums[T]{apAp: apAp, pAp: pAp}
	})
	writeStripSums(buf, partials)
}
