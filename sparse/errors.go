// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package sparse

import "errors"

var (
	// ErrShape indicates non-positive or inconsistent matrix dimensions.
	ErrShape = errors.New("sparse: invalid matrix shape")
	// ErrExtent indicates a value or index buffer whose length does not match
	// the layout implied by the matrix dimensions.
	ErrExtent = errors.New("sparse: buffer extent mismatch")
	// ErrIndexRange indicates a stored column or row index outside the matrix.
	ErrIndexRange = errors.New("sparse: index out of range")
	// ErrOffsets indicates a row-offset index that is not monotonically
	// non-decreasing or does not span the value buffer.
	ErrOffsets = errors.New("sparse: row offsets not monotonic")
)
