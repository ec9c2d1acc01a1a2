// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ajroetker/go-sparse/sparse"
)

func TestNewRootCmd_Use(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "spmvbench" {
		t.Errorf("Use = %q; want %q", cmd.Use, "spmvbench")
	}
}

func TestNewRootCmd_HasSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"bench", "verify", "info"} {
		if !names[want] {
			t.Errorf("subcommand %q not registered", want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, c := range cases {
		got, err := parseLogLevel(c.in)
		if err != nil {
			t.Errorf("parseLogLevel(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("parseLogLevel(%q) = %v; want %v", c.in, got, c.want)
		}
	}

	if _, err := parseLogLevel("loud"); err == nil {
		t.Error("parseLogLevel(\"loud\") did not fail")
	}
}

func TestMatrixFlags_Load(t *testing.T) {
	var f matrixFlags
	if _, err := f.load(); err == nil {
		t.Error("empty flags did not fail")
	}

	f = matrixFlags{size: 3, matrix: "x.mtx"}
	if _, err := f.load(); err == nil {
		t.Error("conflicting flags did not fail")
	}

	f = matrixFlags{size: 3}
	m, err := f.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rows, cols := m.Dims()
	if rows != 9 || cols != 9 {
		t.Errorf("Dims = (%d, %d); want (9, 9)", rows, cols)
	}
}

func TestMatrixFlags_SquareGate(t *testing.T) {
	path := writeRectMatrix(t)

	// load itself is shape-agnostic; info consumes rectangular matrices.
	f := matrixFlags{matrix: path}
	m, err := f.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rows, cols := m.Dims()
	if rows != 2 || cols != 3 {
		t.Errorf("Dims = (%d, %d); want (2, 3)", rows, cols)
	}

	if _, err := f.loadSquare(); err == nil || !strings.Contains(err.Error(), "square") {
		t.Errorf("loadSquare(rectangular) error = %v; want square-system error", err)
	}
}

// writeRectMatrix drops a 2x3 single-entry Matrix Market file into a
// temporary directory.
func writeRectMatrix(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rect.mtx")
	contents := "%%MatrixMarket matrix coordinate real general\n2 3 1\n1 1 1.0\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildFormats(t *testing.T) {
	coo := poisson2D(3)

	mats, err := buildFormats("all", coo)
	if err != nil {
		t.Fatalf("buildFormats(all): %v", err)
	}
	if len(mats) != len(formatNames) {
		t.Fatalf("len = %d; want %d", len(mats), len(formatNames))
	}
	for i, m := range mats {
		if got := sparse.FormatName[float64](m); got != formatNames[i] {
			t.Errorf("FormatName(mats[%d]) = %q; want %q", i, got, formatNames[i])
		}
	}

	if _, err := buildFormats("dense", coo); err == nil {
		t.Error("buildFormats(dense) did not fail")
	}
}

func TestVerifyCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"verify", "--size", "4"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("verify: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "ok: max deviation") {
		t.Errorf("output missing verdict:\n%s", out.String())
	}
}

func TestBenchCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"bench", "--size", "3", "--iters", "5", "--format", "all", "--fingerprint"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("bench: %v\n%s", err, out.String())
	}
	for _, name := range formatNames {
		if !strings.Contains(out.String(), name+" ") {
			t.Errorf("output missing format %q:\n%s", name, out.String())
		}
	}
	if !strings.Contains(out.String(), " x=") {
		t.Errorf("output missing fingerprint:\n%s", out.String())
	}
}

func TestBenchCommand_RejectsBadIters(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bench", "--size", "3", "--iters", "0"})

	if err := cmd.Execute(); err == nil {
		t.Error("bench --iters 0 did not fail")
	}
}

func TestInfoCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"info", "--size", "3"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("info: %v\n%s", err, out.String())
	}
	for _, want := range []string{"shape:    9 x 9", "entries:  33 stored, 33 canonical", "degrees:  min 3, mean 3.67, max 5"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestInfoCommand_Rectangular(t *testing.T) {
	path := writeRectMatrix(t)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"info", "--matrix", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("info on rectangular matrix: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "shape:    2 x 3") {
		t.Errorf("output missing rectangular shape:\n%s", out.String())
	}

	// The CG-driving commands keep the restriction.
	cmd = NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"bench", "--matrix", path, "--iters", "1"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "square") {
		t.Errorf("bench(rectangular) error = %v; want square-system error", err)
	}
}
