package render

import (
	"bytes"
	"encoding/xml"
	"io"
	"math"
	"regexp"
	"strconv"

	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/qr"
)

var moduleSegment = regexp.MustCompile(`M([0-9.eE+-]+),([0-9.eE+-]+)h([0-9.eE+-]+)v([0-9.eE+-]+)h-([0-9.eE+-]+)z`)

// ParseModules recovers the module grid from the dark-module path of an SVG
// produced by RenderSVG with geometry g. Every path segment must be a square
// of side g.ModuleScale aligned to the module grid.
func ParseModules(svg []byte, g Geometry) (qr.Matrix, error) {
	d, err := firstPathData(svg)
	if err != nil {
		return qr.Matrix{}, err
	}

	squares, err := pathSquares(d)
	if err != nil {
		return qr.Matrix{}, err
	}

	rows := make([][]bool, g.MatrixSize)
	for i := range rows {
		rows[i] = make([]bool, g.MatrixSize)
	}
	for _, sq := range squares {
		if sq.W != g.ModuleScale {
			return qr.Matrix{}, errors.New(errors.ErrCodeInvalidFormat, "segment side %v does not match module scale %v", sq.W, g.ModuleScale)
		}
		x, okX := gridIndex(sq.X, g)
		y, okY := gridIndex(sq.Y, g)
		if !okX || !okY {
			return qr.Matrix{}, errors.New(errors.ErrCodeInvalidFormat, "segment at (%v,%v) is off the module grid", sq.X, sq.Y)
		}
		rows[y][x] = true
	}
	return qr.NewMatrix(rows)
}

// pathSquares splits path data made only of "M x,y h s v s h-s z" segments
// into squares.
func pathSquares(d string) ([]Rect, error) {
	squares := []Rect{}
	consumed := 0
	for _, m := range moduleSegment.FindAllStringSubmatchIndex(d, -1) {
		if m[0] != consumed {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected path data at offset %d", consumed)
		}
		consumed = m[1]

		var v [5]float64
		for i := range v {
			var err error
			v[i], err = strconv.ParseFloat(d[m[2+2*i]:m[3+2*i]], 64)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "path number")
			}
		}
		if v[2] != v[3] || v[2] != v[4] || !(v[2] > 0) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "segment at (%v,%v) is not a square", v[0], v[1])
		}
		squares = append(squares, Rect{X: v[0], Y: v[1], W: v[2], H: v[2]})
	}
	if consumed != len(d) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected path data at offset %d", consumed)
	}
	return squares, nil
}

func gridIndex(p float64, g Geometry) (int, bool) {
	f := (p - g.Offset) / g.ModuleScale
	i := int(math.Round(f))
	if math.Abs(f-float64(i)) > 1e-6 || i < 0 || i >= g.MatrixSize {
		return 0, false
	}
	return i, true
}

func firstPathData(svg []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", errors.New(errors.ErrCodeInvalidFormat, "no module path found")
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse svg")
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "path" {
			return attr(se, "d"), nil
		}
	}
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// ParseVector recovers the matrix from an SVG drawn with the given module
// scale and border. The matrix size is derived from the root width.
func ParseVector(svg []byte, scale float64, border int) (qr.Matrix, Geometry, error) {
	cfg := DefaultConfig()
	cfg.ModuleScale, cfg.Border = scale, border
	if err := cfg.validateGeometry(); err != nil {
		return qr.Matrix{}, Geometry{}, err
	}

	width, err := rootWidth(svg)
	if err != nil {
		return qr.Matrix{}, Geometry{}, err
	}
	n := int(math.Round(width/scale)) - 2*border
	if n < 1 || math.Abs(float64(n+2*border)*scale-width) > 1e-6 {
		return qr.Matrix{}, Geometry{}, errors.New(errors.ErrCodeInvalidFormat,
			"width %v does not fit module scale %v with border %d", width, scale, border)
	}

	g, err := Plan(n, cfg)
	if err != nil {
		return qr.Matrix{}, Geometry{}, err
	}
	m, err := ParseModules(svg, g)
	return m, g, err
}

func rootWidth(svg []byte) (float64, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidFormat, "no svg element found")
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "svg" {
			w := attrFloat(se, "width")
			if w <= 0 {
				return 0, errors.New(errors.ErrCodeInvalidFormat, "svg has no width")
			}
			return w, nil
		}
	}
}
