// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-sparse/sparse"
)

func newInfoCmd() *cobra.Command {
	var src matrixFlags

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print matrix statistics and per-format storage footprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			coo, err := src.load()
			if err != nil {
				return err
			}
			rows, cols := coo.Dims()
			csr := coo.ToCSR()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shape:    %d x %d\n", rows, cols)
			fmt.Fprintf(out, "entries:  %d stored, %d canonical\n", coo.NNZ(), csr.NNZ())
			if rows > 0 && cols > 0 {
				density := float64(csr.NNZ()) / (float64(rows) * float64(cols))
				fmt.Fprintf(out, "density:  %.4f%%\n", 100*density)
			}
			minDeg, meanDeg, maxDeg := degreeStats(csr)
			fmt.Fprintf(out, "degrees:  min %d, mean %.2f, max %d\n", minDeg, meanDeg, maxDeg)

			fmt.Fprintf(out, "\n%-6s %12s %10s %8s\n", "format", "bytes", "size", "vs csr")
			csrBytes := formatBytes(csr)
			for _, name := range formatNames {
				m, err := buildFormat(name, coo)
				if err != nil {
					return err
				}
				b := formatBytes(m)
				ratio := "-"
				if csrBytes > 0 {
					ratio = fmt.Sprintf("%.2fx", float64(b)/float64(csrBytes))
				}
				fmt.Fprintf(out, "%-6s %12d %10s %8s\n", name, b, humanBytes(b), ratio)
			}
			return nil
		},
	}

	src.register(cmd)
	return cmd
}

// degreeStats reports the nonzero-per-row extremes and mean of a canonical
// matrix. A zero-row matrix reports zeros.
func degreeStats(m *sparse.CSR[float64]) (minDeg int, meanDeg float64, maxDeg int) {
	if m.Rows == 0 {
		return 0, 0, 0
	}
	minDeg = m.Cols + 1
	for i := 0; i < m.Rows; i++ {
		deg := int(m.RowOffsets[i+1] - m.RowOffsets[i])
		if deg < minDeg {
			minDeg = deg
		}
		if deg > maxDeg {
			maxDeg = deg
		}
	}
	return minDeg, float64(m.NNZ()) / float64(m.Rows), maxDeg
}

// formatBytes sums the backing-array footprint of one format: 4 bytes per
// int32 index or offset, 8 per float64 coefficient. Padding slots count,
// that is the point of comparing layouts.
func formatBytes(m sparse.Matrix[float64]) int {
	switch a := m.(type) {
	case *sparse.CSR[float64]:
		return 4*len(a.RowOffsets) + 4*len(a.ColIndices) + 8*len(a.Values)
	case *sparse.COO[float64]:
		return 4*len(a.Coords) + 8*len(a.Values)
	case *sparse.ELL[float64]:
		return 4*len(a.ColIndices) + 8*len(a.Values)
	case *sparse.SlicedELL[float64]:
		return 4*len(a.ColumnsPerBlock) + 4*len(a.BlockStart) + 4*len(a.ColIndices) + 8*len(a.Values)
	case *sparse.Hybrid[float64]:
		return 4*len(a.ELLColIndices) + 8*len(a.ELLValues) +
			4*len(a.CSRRowOffsets) + 4*len(a.CSRColIndices) + 8*len(a.CSRValues)
	default:
		return 0
	}
}

// humanBytes renders a byte count with a binary unit suffix.
func humanBytes(n int) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.2f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
