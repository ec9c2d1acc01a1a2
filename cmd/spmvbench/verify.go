// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"math"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-sparse/pipelined"
	"github.com/ajroetker/go-sparse/sparse"
)

// maxVerifyRows caps the dense reference product; beyond this the n x n
// reference matrix alone tops 128 MiB.
const maxVerifyRows = 4096

func newVerifyCmd() *cobra.Command {
	var (
		src     matrixFlags
		workers int
		tol     float64
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Cross-check every kernel format against a dense reference",
		Long: `Verify builds every sparse format from the same triplets, runs the fused
product kernel on each, and compares the product vector and both inner
products against a dense gonum reference. Deviations are relative to the
largest reference magnitude; any format above --tol fails the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers < 0 {
				return fmt.Errorf("--workers must be non-negative, got %d", workers)
			}
			coo, err := src.loadSquare()
			if err != nil {
				return err
			}
			n, _ := coo.Dims()
			if n > maxVerifyRows {
				return fmt.Errorf("matrix has %d rows; verify builds a dense reference and is capped at %d", n, maxVerifyRows)
			}

			var pool *workerpool.Pool
			if workers > 0 {
				pool = workerpool.New(workers)
				defer pool.Close()
			}

			p := make([]float64, n)
			for i := range p {
				p[i] = float64(i%7 - 3)
			}
			want, wantApAp, wantPAp := denseReference(coo, p)
			scale := 1.0
			if s := floats.Norm(want, math.Inf(1)); s > 0 {
				scale = s
			}

			var worst float64
			for _, name := range formatNames {
				m, err := buildFormat(name, coo)
				if err != nil {
					return err
				}
				ap := make([]float64, n)
				buf := pipelined.NewReductionBuffer[float64](1)
				pipelined.ParallelCGMatVec[float64](pool, m, p, ap, buf)
				_, apAp, pAp := buf.Scalars()

				devAp := 0.0
				for i := range ap {
					devAp = math.Max(devAp, math.Abs(ap[i]-want[i])/scale)
				}
				devApAp := relDev(apAp, wantApAp)
				devPAp := relDev(pAp, wantPAp)

				fmt.Fprintf(cmd.OutOrStdout(), "%-4s ap=%.3e apap=%.3e pap=%.3e\n", name, devAp, devApAp, devPAp)
				worst = math.Max(worst, math.Max(devAp, math.Max(devApAp, devPAp)))
			}

			if worst > tol {
				return fmt.Errorf("max deviation %.3e exceeds tolerance %.3e", worst, tol)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: max deviation %.3e within %.1e\n", worst, tol)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 runs the sequential kernels)")
	cmd.Flags().Float64Var(&tol, "tol", 1e-10, "Maximum relative deviation accepted")

	return cmd
}

// denseReference computes A*p and both CG inner products with gonum dense
// arithmetic, the oracle the sparse kernels are judged against.
func denseReference(coo *sparse.COO[float64], p []float64) (ap []float64, apAp, pAp float64) {
	n, _ := coo.Dims()
	a := mat.NewDense(n, n, coo.ToDense())
	var y mat.VecDense
	y.MulVec(a, mat.NewVecDense(n, p))
	ap = make([]float64, n)
	copy(ap, y.RawVector().Data)
	return ap, floats.Dot(ap, ap), floats.Dot(p, ap)
}

func relDev(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
