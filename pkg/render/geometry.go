package render

import (
	"github.com/matzehuels/brandqr/pkg/errors"
)

// LogoPadding is the backing padding as a fraction of the logo side.
const LogoPadding = 0.1

// Rect is an axis-aligned box in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the center point of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Geometry is the pixel layout of one rendered code.
type Geometry struct {
	MatrixSize  int
	ModuleScale float64
	// TotalSize is the canvas side: matrix plus border on both sides.
	TotalSize float64
	// Offset is the pixel position of module (0, 0).
	Offset float64
	// Logo is the centered logo box, nil without a logo.
	Logo *Rect
	// Backing is the rounded box behind the logo, nil unless the logo has a
	// background. Its corner radius is BackingRadius.
	Backing       *Rect
	BackingRadius float64
}

// Plan computes the geometry of a matrixSize×matrixSize code drawn with cfg.
// It validates cfg and returns an INVALID_CONFIG error for unusable values.
func Plan(matrixSize int, cfg Config) (Geometry, error) {
	if err := cfg.Validate(); err != nil {
		return Geometry{}, err
	}
	if matrixSize < 1 {
		return Geometry{}, errors.New(errors.ErrCodeInvalidInput, "matrix size must be positive, got %d", matrixSize)
	}

	scale := cfg.ModuleScale
	offset := float64(cfg.Border) * scale
	g := Geometry{
		MatrixSize:  matrixSize,
		ModuleScale: scale,
		TotalSize:   float64(matrixSize)*scale + offset*2,
		Offset:      offset,
	}

	if l := cfg.Logo; l != nil {
		side := g.TotalSize * l.SizePercent / 100
		pos := (g.TotalSize - side) / 2
		g.Logo = &Rect{X: pos, Y: pos, W: side, H: side}

		if l.Background != LogoNone {
			pad := side * LogoPadding
			g.Backing = &Rect{X: pos - pad, Y: pos - pad, W: side + pad*2, H: side + pad*2}
			g.BackingRadius = pad
		}
	}
	return g, nil
}

// ModuleOrigin returns the top-left pixel of module (x, y).
func (g Geometry) ModuleOrigin(x, y int) (float64, float64) {
	return float64(x)*g.ModuleScale + g.Offset, float64(y)*g.ModuleScale + g.Offset
}
