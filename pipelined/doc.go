// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

// Package pipelined provides the fused kernels of a pipelined Conjugate
// Gradient solver: sparse matrix-vector products that compute their
// dependent inner products in the same sweep, and the joint vector update
// that folds the residual norm into the update loop.
//
// Classic CG issues the matrix-vector product, two inner products and three
// vector updates as separate passes over memory. The pipelined formulation
// fuses them into two kernels per iteration:
//
//   - CGMatVec: Ap = A*p, plus <Ap, Ap> and <p, Ap>
//   - CGVectorUpdate: x += alpha*p; r -= alpha*Ap; p = r + beta*p,
//     plus <r, r>
//
// so each iteration reads the large operands exactly twice.
//
// # Reduction buffer
//
// The kernels communicate their inner products through a ReductionBuffer
// holding three equally sized segments in one flat slice:
//
//	segment 0: <r, r>     written by CGVectorUpdate
//	segment 1: <Ap, Ap>   written by CGMatVec
//	segment 2: <p, Ap>    written by CGMatVec
//
// Only element 0 of each segment carries the result; the remaining elements
// exist so the same buffer shape can host partial reductions from devices
// that need them. A driver derives the CG scalars per iteration as
//
//	alpha = rr / pAp
//	beta  = (alpha*alpha*apAp - rr) / rr
//
// # Determinism
//
// For every format except COO the sequential kernels accumulate in a fixed
// row order, so reruns over the same buffers are bitwise reproducible. COO
// scatters in entry order and then reduces the dense result with SIMD lanes;
// its accumulation order is an implementation detail. The Parallel variants
// combine fixed per-strip partials in strip order and are likewise
// reproducible for a given strip size.
//
// # Contracts
//
// Kernels perform no shape or bounds validation: the matrix must be square
// (the product reads p[row] for the fused <p, Ap> term), p and Ap must have
// row-count length, and matrix buffers must satisfy sparse.Validate.
// Malformed inputs are undefined behavior, exactly as for raw slice indexing.
package pipelined
