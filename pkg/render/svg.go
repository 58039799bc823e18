package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/brandqr/pkg/qr"
)

const svgProlog = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
`

// VectorImage is a rendered SVG document and its declared pixel size.
// Values are never modified after RenderSVG returns them.
type VectorImage struct {
	SVG    []byte
	Width  float64
	Height float64
}

// String returns the SVG document.
func (v VectorImage) String() string { return string(v.SVG) }

// Inline returns the document without the XML prolog and doctype, ready to
// embed in HTML.
func (v VectorImage) Inline() string {
	s := string(v.SVG)
	if i := strings.Index(s, "<svg"); i >= 0 {
		return s[i:]
	}
	return s
}

// RenderSVG draws m with cfg. Draw order is background, modules, logo backing,
// logo. All dark modules share one path filled once with the foreground.
func RenderSVG(m qr.Matrix, cfg Config) (VectorImage, error) {
	g, err := Plan(m.Size(), cfg)
	if err != nil {
		return VectorImage{}, err
	}

	total := num(g.TotalSize)
	var buf bytes.Buffer
	buf.WriteString(svgProlog)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%s" height="%s" viewBox="0 0 %s %s" stroke="none">`+"\n",
		total, total, total, total)
	fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="%s"/>`+"\n", total, total, cfg.Background)

	buf.WriteString(`  <path d="`)
	writeModulePath(&buf, m, g)
	fmt.Fprintf(&buf, `" fill="%s"/>`+"\n", cfg.Foreground)

	if b := g.Backing; b != nil {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s" rx="%s"/>`+"\n",
			num(b.X), num(b.Y), num(b.W), num(b.H), cfg.Logo.BackingColor(), num(g.BackingRadius))
	}
	if l := g.Logo; l != nil {
		fmt.Fprintf(&buf, `  <image x="%s" y="%s" width="%s" height="%s" href="%s"/>`+"\n",
			num(l.X), num(l.Y), num(l.W), num(l.H), attrEscaper.Replace(cfg.Logo.Data))
	}

	buf.WriteString("</svg>\n")
	return VectorImage{SVG: buf.Bytes(), Width: g.TotalSize, Height: g.TotalSize}, nil
}

// writeModulePath appends one closed unit square per dark module, row-major.
func writeModulePath(buf *bytes.Buffer, m qr.Matrix, g Geometry) {
	s := num(g.ModuleScale)
	for y := 0; y < m.Size(); y++ {
		for x := 0; x < m.Size(); x++ {
			if !m.Module(x, y) {
				continue
			}
			px, py := g.ModuleOrigin(x, y)
			fmt.Fprintf(buf, "M%s,%sh%sv%sh-%sz", num(px), num(py), s, s, s)
		}
	}
}

// num formats v in the shortest form that parses back to the same float.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
