// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

// Command spmvbench benchmarks and cross-checks the fused CG kernels over
// every sparse format, on generated Poisson systems or Matrix Market files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
