// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/spf13/cobra"
	"github.com/zeebo/xxh3"

	"github.com/ajroetker/go-sparse/pipelined"
	"github.com/ajroetker/go-sparse/sparse"
)

func newBenchCmd() *cobra.Command {
	var (
		src         matrixFlags
		format      string
		iters       int
		workers     int
		fingerprint bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time pipelined CG iterations per sparse format",
		Long: `Bench runs the fused CG kernels for a fixed number of iterations against
b = ones and reports wall time per iteration plus a GFLOP/s estimate.
With --workers N the kernels run on an N-worker pool; 0 keeps them
sequential. --fingerprint prints an xxh3 digest of the solution bits so
runs can be compared across machines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iters <= 0 {
				return fmt.Errorf("--iters must be positive, got %d", iters)
			}
			if workers < 0 {
				return fmt.Errorf("--workers must be non-negative, got %d", workers)
			}
			coo, err := src.loadSquare()
			if err != nil {
				return err
			}
			mats, err := buildFormats(format, coo)
			if err != nil {
				return err
			}

			var pool *workerpool.Pool
			if workers > 0 {
				pool = workerpool.New(workers)
				defer pool.Close()
				slog.Debug("worker pool ready", "workers", pool.NumWorkers())
			}

			for _, m := range mats {
				res := runCG(pool, m, iters)
				line := fmt.Sprintf("%-4s iters=%-4d total=%-12v per-iter=%-12v gflops=%-7.2f rr=%.3e",
					sparse.FormatName[float64](m), res.iters, res.elapsed.Round(time.Microsecond),
					res.perIter.Round(time.Nanosecond), res.gflops, res.rr)
				if fingerprint {
					line += fmt.Sprintf(" x=%016x", vectorDigest(res.x))
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csr", "Sparse format to run (csr|coo|ell|sell|hyb|all)")
	cmd.Flags().IntVar(&iters, "iters", 100, "CG iterations per format")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 runs the sequential kernels)")
	cmd.Flags().BoolVar(&fingerprint, "fingerprint", false, "Print an xxh3 digest of the solution vector")

	return cmd
}

type cgResult struct {
	x       []float64
	rr      float64
	iters   int
	elapsed time.Duration
	perIter time.Duration
	gflops  float64
}

// runCG drives the pipelined iteration on b = ones from x = 0 and times the
// kernel calls only, not the format assembly.
func runCG(pool *workerpool.Pool, m sparse.Matrix[float64], iters int) cgResult {
	n, _ := m.Dims()
	nnz := m.NNZ()

	x := make([]float64, n)
	r := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)
	for i := range r {
		r[i] = 1
		p[i] = 1
	}
	rr := float64(n)
	buf := pipelined.NewReductionBuffer[float64](1)

	done := 0
	start := time.Now()
	for k := 0; k < iters; k++ {
		pipelined.ParallelCGMatVec[float64](pool, m, p, ap, buf)
		_, apAp, pAp := buf.Scalars()
		if pAp == 0 {
			// Exact convergence; the next alpha would divide by zero.
			break
		}
		alpha := rr / pAp
		beta := (alpha*alpha*apAp - rr) / rr
		pipelined.ParallelCGVectorUpdate(pool, x, p, r, ap, alpha, beta, buf)
		rr = buf.RR()[0]
		done = k + 1
	}
	elapsed := time.Since(start)

	// Per iteration: 2 flops per stored entry for the product, 4n for its
	// fused reductions, 8n for the vector update and residual dot.
	flops := float64(done) * (2*float64(nnz) + 12*float64(n))
	res := cgResult{x: x, rr: rr, iters: done, elapsed: elapsed}
	if done > 0 {
		res.perIter = elapsed / time.Duration(done)
	}
	if s := elapsed.Seconds(); s > 0 {
		res.gflops = flops / s / 1e9
	}
	return res
}

// vectorDigest hashes the exact bit pattern of a vector, so equal digests
// mean bitwise-identical results.
func vectorDigest(xs []float64) uint64 {
	buf := make([]byte, 8*len(xs))
	for i, x := range xs {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(x))
	}
	return xxh3.Hash(buf)
}
