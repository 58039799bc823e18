package qr

import (
	"strings"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// Matrix is an immutable square grid of modules, origin top-left.
type Matrix struct {
	size    int
	modules []bool
}

// NewMatrix copies rows into a Matrix. Rows must be non-empty and square.
func NewMatrix(rows [][]bool) (Matrix, error) {
	n := len(rows)
	if n == 0 {
		return Matrix{}, errors.New(errors.ErrCodeInvalidInput, "module matrix is empty")
	}
	modules := make([]bool, n*n)
	for y, row := range rows {
		if len(row) != n {
			return Matrix{}, errors.New(errors.ErrCodeInvalidInput,
				"module matrix is not square: row %d has %d modules, want %d", y, len(row), n)
		}
		copy(modules[y*n:], row)
	}
	return Matrix{size: n, modules: modules}, nil
}

// MustMatrix is NewMatrix that panics on error. Intended for tests and examples.
func MustMatrix(rows [][]bool) Matrix {
	m, err := NewMatrix(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMatrix builds a matrix from lines of '#' (dark) and '.' (light).
func ParseMatrix(s string) (Matrix, error) {
	var rows [][]bool
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		line = strings.TrimSpace(line)
		row := make([]bool, 0, len(line))
		for _, r := range line {
			switch r {
			case '#', '1':
				row = append(row, true)
			case '.', '0':
				row = append(row, false)
			default:
				return Matrix{}, errors.New(errors.ErrCodeInvalidInput, "unexpected module character %q", r)
			}
		}
		rows = append(rows, row)
	}
	return NewMatrix(rows)
}

// Size returns the side length in modules. Zero for the zero Matrix.
func (m Matrix) Size() int { return m.size }

// Module reports whether the module at (x, y) is dark.
// Out-of-range coordinates are light.
func (m Matrix) Module(x, y int) bool {
	if x < 0 || y < 0 || x >= m.size || y >= m.size {
		return false
	}
	return m.modules[y*m.size+x]
}

// Dark returns the number of dark modules.
func (m Matrix) Dark() int {
	n := 0
	for _, v := range m.modules {
		if v {
			n++
		}
	}
	return n
}

// Rows returns a fresh copy of the grid as rows.
func (m Matrix) Rows() [][]bool {
	rows := make([][]bool, m.size)
	for y := range rows {
		rows[y] = append([]bool(nil), m.modules[y*m.size:(y+1)*m.size]...)
	}
	return rows
}

// Equal reports whether both matrices have the same size and modules.
func (m Matrix) Equal(o Matrix) bool {
	if m.size != o.size {
		return false
	}
	for i := range m.modules {
		if m.modules[i] != o.modules[i] {
			return false
		}
	}
	return true
}

// String renders the grid with '#' and '.', one row per line.
func (m Matrix) String() string {
	var b strings.Builder
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			if m.Module(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
