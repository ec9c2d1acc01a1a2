// Copyright 2026 The go-sparse Authors. SPDX-License-Identifier: Apache-2.0

// Package market reads and writes sparse matrices in the Matrix Market
// exchange format.
//
// Only the coordinate (sparse) layout is supported, with real, integer or
// pattern fields and general, symmetric or skew-symmetric symmetry.
// Symmetric inputs are expanded on read: every off-diagonal entry produces
// its mirrored twin, negated for skew-symmetric files. ReadFile
// transparently decompresses files with a .gz suffix.
package market

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/ajroetker/go-sparse/sparse"
)

var (
	// ErrBadHeader indicates a missing or malformed banner or size line.
	ErrBadHeader = errors.New("market: malformed header")
	// ErrBadEntry indicates a malformed or out-of-range coordinate entry.
	ErrBadEntry = errors.New("market: malformed entry")
	// ErrUnsupported indicates a well-formed Matrix Market file using a
	// layout, field or symmetry this package does not handle.
	ErrUnsupported = errors.New("market: unsupported matrix type")
)

// Read parses a Matrix Market coordinate body into triplet storage.
// Symmetric and skew-symmetric files are expanded to their full entry set.
func Read(r io.Reader) (*sparse.COO[float64], error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty input", ErrBadHeader)
	}
	lineNo := 1
	field, symmetry, err := parseBanner(sc.Text())
	if err != nil {
		return nil, err
	}

	rows, cols, nnz, lineNo, err := parseSize(sc, lineNo)
	if err != nil {
		return nil, err
	}
	// Symmetry qualifiers describe square matrices; mirrored entries of a
	// rectangular one would land outside the declared shape.
	if symmetry != "general" && rows != cols {
		return nil, fmt.Errorf("%w: %s matrix is %dx%d", ErrBadHeader, symmetry, rows, cols)
	}

	m := sparse.NewCOO[float64](rows, cols)
	for count := 0; count < nnz; {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %d entries declared, %d found", ErrBadEntry, nnz, count)
		}
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}

		i, j, v, err := parseEntry(text, field, lineNo)
		if err != nil {
			return nil, err
		}
		if i < 1 || i > rows || j < 1 || j > cols {
			return nil, fmt.Errorf("%w: line %d: entry (%d, %d) outside %dx%d", ErrBadEntry, lineNo, i, j, rows, cols)
		}

		m.Append(i-1, j-1, v)
		if i != j {
			switch symmetry {
			case "symmetric":
				m.Append(j-1, i-1, v)
			case "skew-symmetric":
				m.Append(j-1, i-1, -v)
			}
		}
		count++
	}
	return m, nil
}

// ReadFile reads a Matrix Market file, decompressing it when the name ends
// in .gz.
func ReadFile(path string) (*sparse.COO[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("market: %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	return Read(r)
}

// Write emits m as a coordinate real general body with 1-based indices.
// Duplicate coordinates are written as stored; readers accumulate them.
func Write(w io.Writer, m *sparse.COO[float64]) error {
	if err := m.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "%%MatrixMarket matrix coordinate real general")
	fmt.Fprintf(bw, "%d %d %d\n", m.Rows, m.Cols, m.NNZ())
	for k := range m.Values {
		fmt.Fprintf(bw, "%d %d %s\n",
			m.Coords[2*k]+1, m.Coords[2*k+1]+1,
			strconv.FormatFloat(m.Values[k], 'g', -1, 64))
	}
	return bw.Flush()
}

// parseBanner validates the %%MatrixMarket banner line and returns the
// lower-cased field and symmetry qualifiers.
func parseBanner(line string) (field, symmetry string, err error) {
	f := strings.Fields(line)
	if len(f) != 5 || !strings.EqualFold(f[0], "%%MatrixMarket") {
		return "", "", fmt.Errorf("%w: bad banner %q", ErrBadHeader, line)
	}
	if !strings.EqualFold(f[1], "matrix") {
		return "", "", fmt.Errorf("%w: object %q", ErrUnsupported, f[1])
	}
	if !strings.EqualFold(f[2], "coordinate") {
		return "", "", fmt.Errorf("%w: format %q", ErrUnsupported, f[2])
	}

	field = strings.ToLower(f[3])
	switch field {
	case "real", "integer", "pattern":
	default:
		return "", "", fmt.Errorf("%w: field %q", ErrUnsupported, f[3])
	}

	symmetry = strings.ToLower(f[4])
	switch symmetry {
	case "general", "symmetric", "skew-symmetric":
	default:
		return "", "", fmt.Errorf("%w: symmetry %q", ErrUnsupported, f[4])
	}
	return field, symmetry, nil
}

// parseSize scans past comments to the "rows cols nnz" line.
func parseSize(sc *bufio.Scanner, lineNo int) (rows, cols, nnz, line int, err error) {
	for {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, 0, 0, lineNo, err
			}
			return 0, 0, 0, lineNo, fmt.Errorf("%w: missing size line", ErrBadHeader)
		}
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "%") {
			continue
		}

		f := strings.Fields(text)
		if len(f) != 3 {
			return 0, 0, 0, lineNo, fmt.Errorf("%w: line %d: want rows cols nnz", ErrBadHeader, lineNo)
		}
		dims := make([]int, 3)
		for k, s := range f {
			dims[k], err = strconv.Atoi(s)
			if err != nil || dims[k] < 0 {
				return 0, 0, 0, lineNo, fmt.Errorf("%w: line %d: size %q", ErrBadHeader, lineNo, s)
			}
		}
		return dims[0], dims[1], dims[2], lineNo, nil
	}
}

// parseEntry splits one data line into 1-based indices and a value.
// Pattern entries carry no value column and read as 1.
func parseEntry(text, field string, lineNo int) (i, j int, v float64, err error) {
	f := strings.Fields(text)
	want := 3
	if field == "pattern" {
		want = 2
	}
	if len(f) != want {
		return 0, 0, 0, fmt.Errorf("%w: line %d: want %d fields, got %d", ErrBadEntry, lineNo, want, len(f))
	}

	if i, err = strconv.Atoi(f[0]); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: line %d: row index %q", ErrBadEntry, lineNo, f[0])
	}
	if j, err = strconv.Atoi(f[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: line %d: column index %q", ErrBadEntry, lineNo, f[1])
	}

	v = 1
	if field != "pattern" {
		if v, err = strconv.ParseFloat(f[2], 64); err != nil {
			return 0, 0, 0, fmt.Errorf("%w: line %d: value %q", ErrBadEntry, lineNo, f[2])
		}
	}
	return i, j, v, nil
}
