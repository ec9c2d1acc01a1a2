// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package pipelined

import "github.com/ajroetker/go-highway/hwy"

// ReductionBuffer carries the three inner products of a pipelined CG
// iteration as segments of one flat slice: <r,r> at offset 0, <Ap,Ap> at
// SegmentLen and <p,Ap> at 2*SegmentLen. Kernels write element 0 of their
// segments and leave the rest untouched.
type ReductionBuffer[T hwy.Floats] []T

// NewReductionBuffer allocates a buffer of three segments of segmentLen
// elements each. segmentLen 1 suffices for the host kernels; larger segments
// leave room for staged partial reductions.
// Panics if segmentLen < 1.
func NewReductionBuffer[T hwy.Floats](segmentLen int) ReductionBuffer[T] {
	if segmentLen < 1 {
		panic("pipelined: segment length must be at least 1")
	}
	return make(ReductionBuffer[T], 3*segmentLen)
}

// SegmentLen returns the length of one segment.
func (b ReductionBuffer[T]) SegmentLen() int { return len(b) / 3 }

// RR returns the <r,r> segment.
func (b ReductionBuffer[T]) RR() []T { return b[:b.SegmentLen()] }

// ApAp returns the <Ap,Ap> segment.
func (b ReductionBuffer[T]) ApAp() []T { return b[b.SegmentLen() : 2*b.SegmentLen()] }

// PAp returns the <p,Ap> segment.
func (b ReductionBuffer[T]) PAp() []T { return b[2*b.SegmentLen():] }

// Scalars returns element 0 of each segment: the inner products the kernels
// produced for the current iteration.
func (b ReductionBuffer[T]) Scalars() (rr, apAp, pAp T) {
	seg := b.SegmentLen()
	return b[0], b[seg], b[2*seg]
}
