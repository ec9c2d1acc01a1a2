// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-sparse/market"
	"github.com/ajroetker/go-sparse/sparse"
)

var logLevel string

// NewRootCmd builds the spmvbench command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spmvbench",
		Short:         "Benchmark and verify fused sparse CG kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newInfoCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) error {
	lvl, err := parseLogLevel(levelStr)
	if err != nil {
		return err
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
	return nil
}

// parseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// matrixFlags selects the input system shared by bench, verify and info:
// either a generated 2-D Poisson problem or a Matrix Market file.
type matrixFlags struct {
	size   int
	matrix string
}

func (f *matrixFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.size, "size", 0, "Generate a 2-D Poisson system on an n x n grid")
	cmd.Flags().StringVar(&f.matrix, "matrix", "", "Read a Matrix Market file (.mtx or .mtx.gz)")
}

// load assembles the selected system as COO triplets. Shape is not
// constrained here; info reports rectangular matrices too.
func (f *matrixFlags) load() (*sparse.COO[float64], error) {
	switch {
	case f.size > 0 && f.matrix != "":
		return nil, fmt.Errorf("--size and --matrix are mutually exclusive")
	case f.matrix != "":
		m, err := market.ReadFile(f.matrix)
		if err != nil {
			return nil, err
		}
		rows, cols := m.Dims()
		slog.Info("loaded matrix", "path", f.matrix, "rows", rows, "cols", cols, "nnz", m.NNZ())
		return m, nil
	case f.size > 0:
		m := poisson2D(f.size)
		slog.Info("generated Poisson system", "grid", f.size, "rows", f.size*f.size, "nnz", m.NNZ())
		return m, nil
	default:
		return nil, fmt.Errorf("one of --size or --matrix is required")
	}
}

// loadSquare is load for the commands that drive the CG kernels, which
// update x, r and p in lockstep with Ap and so need one vector length.
func (f *matrixFlags) loadSquare() (*sparse.COO[float64], error) {
	m, err := f.load()
	if err != nil {
		return nil, err
	}
	if rows, cols := m.Dims(); rows != cols {
		return nil, fmt.Errorf("%s: matrix is %dx%d, CG kernels need a square system", f.matrix, rows, cols)
	}
	return m, nil
}

// formatNames is the build order used by --format all.
var formatNames = []string{"csr", "coo", "ell", "sell", "hyb"}

// buildFormat converts canonical triplets into one named kernel format.
func buildFormat(name string, coo *sparse.COO[float64]) (sparse.Matrix[float64], error) {
	switch name {
	case "csr":
		return coo.ToCSR(), nil
	case "coo":
		return coo, nil
	case "ell":
		return coo.ToELL(0), nil
	case "sell":
		return coo.ToSlicedELL(sparse.DefaultRowsPerBlock), nil
	case "hyb":
		return coo.ToHybrid(0), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want csr|coo|ell|sell|hyb|all)", name)
	}
}

// buildFormats resolves --format into concrete matrices, expanding "all".
func buildFormats(name string, coo *sparse.COO[float64]) ([]sparse.Matrix[float64], error) {
	names := []string{name}
	if name == "all" {
		names = formatNames
	}
	out := make([]sparse.Matrix[float64], 0, len(names))
	for _, n := range names {
		m, err := buildFormat(n, coo)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
