// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

package main

import "github.com/ajroetker/go-sparse/sparse"

// poisson2D assembles the standard 5-point finite-difference Laplacian on an
// nx by nx grid with Dirichlet boundaries: 4 on the diagonal, -1 per grid
// neighbor. Entries are appended row by row in ascending column order, so the
// triplets are already canonical.
func poisson2D(nx int) *sparse.COO[float64] {
	n := nx * nx
	m := sparse.NewCOO[float64](n, n)
	for i := 0; i < nx; i++ {
		for j := 0; j < nx; j++ {
			row := i*nx + j
			if i > 0 {
				m.Append(row, row-nx, -1)
			}
			if j > 0 {
				m.Append(row, row-1, -1)
			}
			m.Append(row, row, 4)
			if j < nx-1 {
				m.Append(row, row+1, -1)
			}
			if i < nx-1 {
				m.Append(row, row+nx, -1)
			}
		}
	}
	return m
}
