package cli

import (
	"strings"

	"github.com/matzehuels/brandqr/pkg/qr"
)

// renderHalfBlocks draws m with half-block characters, two module rows per
// text line, surrounded by border light modules. Past the last row is blank. With invert, dark modules
// are drawn as blanks, which reads better on dark terminals.
func renderHalfBlocks(m qr.Matrix, border int, invert bool) string {
	if border < 0 {
		border = 0
	}
	n := m.Size() + 2*border
	dark := func(x, y int) bool {
		x, y = x-border, y-border
		d := x >= 0 && y >= 0 && x < m.Size() && y < m.Size() && m.Module(x, y)
		return d != invert
	}

	var b strings.Builder
	for y := 0; y < n; y += 2 {
		for x := 0; x < n; x++ {
			top := dark(x, y)
			bottom := y+1 < n && dark(x, y+1)
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
