// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import "github.com/ajroetker/go-highway/hwy"

// Matrix is the closed set of sparse storage formats. It is implemented by
// exactly *CSR, *COO, *ELL, *SlicedELL and *Hybrid; the unexported marker
// method prevents implementations outside this package, so kernel packages
// can dispatch over the concrete types with an exhaustive type switch.
type Matrix[T hwy.Floats] interface {
	// Dims returns the logical (rows, cols) shape.
	Dims() (rows, cols int)
	// NNZ returns the number of stored entries. For padded formats this
	// counts live entries, not allocated slots.
	NNZ() int

	isMatrix()
}

// FormatName returns a short lower-case name for the storage format of m,
// e.g. "csr" or "sell".
func FormatName[T hwy.Floats](m Matrix[T]) string {
	switch m.(type) {
	case *CSR[T]:
		return "csr"
	case *COO[T]:
		return "coo"
	case *ELL[T]:
		return "ell"
	case *SlicedELL[T]:
		return "sell"
	case *Hybrid[T]:
		return "hyb"
	default:
		return "unknown"
	}
}
