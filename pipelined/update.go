// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package pipelined

import "github.com/ajroetker/go-highway/hwy"

// CGVectorUpdate performs the joint vector update of a pipelined CG
// iteration over result, p, r and Ap:
//
//	result += alpha * p
//	r      -= alpha * Ap
//	p       = r + beta * p
//
// and accumulates <r, r> of the updated residual into element 0 of the
// buffer's RR segment in the same pass.
//
// All four vectors must have equal length; the update reads each element
// once and runs in a fixed order, so the accumulated <r, r> is bitwise
// reproducible across runs.
func CGVectorUpdate[T hwy.Floats](result, p, r, Ap []T, alpha, beta T, buf ReductionBuffer[T]) {
	buf[0] = updateRange(result, p, r, Ap, alpha, beta, 0, len(result))
}

// updateRange applies the joint update to elements [start, end) and returns
// that range's contribution to <r, r>.
func updateRange[T hwy.Floats](result, p, r, Ap []T, alpha, beta T, start, end int) T {
	var innerProdR T
	for i := start; i < end; i++ {
		valueP := p[i]
		valueR := r[i]

		result[i] += alpha * valueP
		valueR -= alpha * Ap[i]
		valueP = valueR + beta*valueP
		innerProdR += valueR * valueR

		p[i] = valueP
		r[i] = valueR
	}
	return innerProdR
}
