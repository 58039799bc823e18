package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// Supersample is the ratio of raster pixels to vector pixels.
const Supersample = 4

// MaxRasterPixels bounds the surface ToPNG allocates (256 MiB of RGBA).
const MaxRasterPixels = 1 << 26

// PNGOption configures ToPNG.
type PNGOption func(*pngExporter)

type pngExporter struct {
	scale      int
	background string
	fallback   func() (float64, error)
}

// WithScale overrides the supersampling factor.
func WithScale(s int) PNGOption {
	return func(e *pngExporter) { e.scale = s }
}

// WithBackground sets the color the surface is filled with before drawing.
// Defaults to the fill of the SVG background rect, else white.
func WithBackground(c string) PNGOption {
	return func(e *pngExporter) { e.background = c }
}

// WithFallbackSize supplies the canvas side when the image declares no size.
// The pipeline passes the planned TotalSize so the raster matches the vector.
func WithFallbackSize(fn func() (float64, error)) PNGOption {
	return func(e *pngExporter) { e.fallback = fn }
}

// ToPNG rasterizes v at Supersample× its declared size. The surface is filled
// with the background before anything is drawn. Module squares are snapped to
// whole pixels and filled without smoothing; oksvg draws the remaining shapes.
// Failures are EXPORT_FAILED errors; v is never modified.
func ToPNG(ctx context.Context, v VectorImage, opts ...PNGOption) ([]byte, error) {
	e := pngExporter{scale: Supersample}
	for _, opt := range opts {
		opt(&e)
	}
	if e.scale < 1 {
		return nil, errors.New(errors.ErrCodeExport, "scale must be at least 1, got %d", e.scale)
	}

	doc, err := scanSVG(v.SVG)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "decode svg")
	}
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc.residual(v.SVG)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "decode svg")
	}

	w, h := v.Width, v.Height
	if w <= 0 || h <= 0 {
		w, h = icon.ViewBox.W, icon.ViewBox.H
	}
	if w <= 0 || h <= 0 {
		if e.fallback == nil {
			return nil, errors.New(errors.ErrCodeExport, "image has no size")
		}
		side, err := e.fallback()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeExport, err, "compute fallback size")
		}
		w, h = side, side
	}
	pw, ph, err := RasterSize(w, h, e.scale)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := float64(e.scale)
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))

	bg, err := e.backgroundColor(doc)
	if err != nil {
		return nil, err
	}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	if doc.backRect != nil {
		fillRects(img, doc.backFill, []Rect{*doc.backRect}, s)
	}
	if doc.moduleFill != nil {
		fillRects(img, doc.moduleFill, doc.modules, s)
	}

	icon.SetTarget(0, 0, w*s, h*s)
	scanner := rasterx.NewScannerGV(pw, ph, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(pw, ph, scanner), 1.0)

	for _, im := range doc.images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := drawLogo(img, im, s); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "encode png")
	}
	return buf.Bytes(), nil
}

// RasterSize returns the pixel size of a w×h image rasterized at scale. It is
// an EXPORT_FAILED error when the surface would exceed MaxRasterPixels.
func RasterSize(w, h float64, scale int) (int, int, error) {
	fw, fh := math.Ceil(w*float64(scale)), math.Ceil(h*float64(scale))
	if !(fw >= 1 && fh >= 1) || fw*fh > MaxRasterPixels {
		return 0, 0, errors.New(errors.ErrCodeExport,
			"raster of %vx%v pixels exceeds the limit of %d pixels", fw, fh, MaxRasterPixels)
	}
	return int(fw), int(fh), nil
}

// fillRects fills each rect, scaled by s, with c. Edges are snapped to whole
// pixels so shared edges between neighbouring squares never leave a seam.
func fillRects(dst *image.RGBA, c color.Color, rects []Rect, s float64) {
	src := &image.Uniform{C: c}
	for _, r := range rects {
		px := image.Rect(snap(r.X*s), snap(r.Y*s), snap((r.X+r.W)*s), snap((r.Y+r.H)*s))
		draw.Draw(dst, px, src, image.Point{}, draw.Over)
	}
}

func snap(v float64) int {
	return int(math.Floor(v + 0.5 + 1e-6))
}

func (e pngExporter) backgroundColor(doc svgDoc) (color.Color, error) {
	src := e.background
	if src == "" {
		src = doc.background
	}
	if src == "" {
		return color.White, nil
	}
	c, err := ParseColor(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "background color")
	}
	return c, nil
}
