// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

// Package sparse provides sparse matrix storage formats for iterative solvers.
//
// The package defines a closed set of storage layouts over raw numeric and
// index buffers. There is no runtime polymorphism inside the compute kernels:
// a format is selected once by the caller, and the kernel packages dispatch
// statically over the concrete type.
//
// # Formats
//
// Five layouts are supported, trading construction cost, padding waste and
// memory locality against each other:
//
//   - CSR: compressed sparse row. Row-contiguous values with a row-offset
//     index. The default general-purpose format.
//   - COO: coordinate (triplet) storage. Unordered (row, col, value) entries;
//     duplicates are legal and accumulate additively. The natural assembly
//     format.
//   - ELL: fixed-width padded rows stored column-major. Fast regular access
//     when row degrees are uniform; padding waste grows with the densest row.
//   - SlicedELL: ELL sliced into blocks of consecutive rows, each block with
//     its own width. Bounds padding waste to the densest row per block
//     (the SELL-C layout).
//   - Hybrid: a fixed-width ELL part holding the regular leading entries of
//     each row plus a CSR overflow part for the excess.
//
// # Padding convention
//
// ELL-family layouts mark unused padded slots with a stored value of exactly
// zero. Kernels skip zero-valued slots without reading the column index.
// Consequently an explicitly stored zero coefficient is indistinguishable
// from padding and is dropped by the converters: in these formats a zero
// value means "no entry". Assemble with nonzero coefficients only.
//
// # Assembly and validation
//
// COO is the assembly entry point: build with NewCOO/Append (or COOFromDense)
// and convert with ToCSR, ToELL, ToSlicedELL, ToHybrid. Conversions
// canonicalize through CSR, merging duplicate coordinates additively and
// sorting each row by column.
//
// The compute kernels perform no validation of extents or index ranges
// (malformed buffers are undefined behavior there). Validate exists for the
// assembly side of that contract: run it on anything not produced by the
// converters in this package before handing buffers to a kernel.
package sparse
