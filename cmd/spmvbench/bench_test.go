// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"testing"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
)

func TestPoisson2D(t *testing.T) {
	m := poisson2D(3)
	rows, cols := m.Dims()
	if rows != 9 || cols != 9 {
		t.Fatalf("Dims = (%d, %d); want (9, 9)", rows, cols)
	}
	// 5 entries per node minus one per boundary edge.
	if m.NNZ() != 33 {
		t.Fatalf("NNZ = %d; want 33", m.NNZ())
	}

	dense := m.ToDense()
	for i := 0; i < 9; i++ {
		if dense[i*9+i] != 4 {
			t.Errorf("diagonal [%d][%d] = %v; want 4", i, i, dense[i*9+i])
		}
		for j := 0; j < 9; j++ {
			if dense[i*9+j] != dense[j*9+i] {
				t.Errorf("not symmetric at (%d, %d)", i, j)
			}
		}
	}
	if dense[4*9+3] != -1 || dense[4*9+1] != -1 {
		t.Error("center row missing -1 neighbors")
	}
}

func TestRunCG(t *testing.T) {
	csr := poisson2D(8).ToCSR()

	res := runCG(nil, csr, 30)
	if res.iters != 30 {
		t.Fatalf("iters = %d; want 30", res.iters)
	}
	if res.rr <= 0 || res.rr >= 1 {
		t.Errorf("rr = %g; want a strongly reduced residual in (0, 1)", res.rr)
	}

	// Same kernels, same strip order: reruns reproduce the bits.
	again := runCG(nil, csr, 30)
	if vectorDigest(res.x) != vectorDigest(again.x) {
		t.Error("sequential rerun changed the solution bits")
	}
}

func TestRunCG_PoolBelowGatesMatchesSequential(t *testing.T) {
	csr := poisson2D(8).ToCSR()
	pool := workerpool.New(2)
	defer pool.Close()

	seq := runCG(nil, csr, 20)
	par := runCG(pool, csr, 20)
	if vectorDigest(seq.x) != vectorDigest(par.x) {
		t.Error("small-system pool run diverged from sequential bits")
	}
}

func TestVectorDigest(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{1, 2, 3}
	c := []float64{3, 2, 1}

	if vectorDigest(a) != vectorDigest(b) {
		t.Error("equal vectors hash differently")
	}
	if vectorDigest(a) == vectorDigest(c) {
		t.Error("reordered vector hashes the same")
	}
}
