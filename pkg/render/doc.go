// Package render turns a QR module matrix into branded vector and raster images.
//
// # Overview
//
// Rendering is split into three steps that share one [Geometry]:
//
//   - [Plan] computes the canvas size, module offset and logo boxes from a
//     [Config]. It is the only place that validates geometry.
//   - [RenderSVG] writes the vector image: background, one compound path for
//     all dark modules, the optional rounded logo backing and the logo itself.
//   - [ToPNG] rasterizes a [VectorImage] at [Supersample]× its declared size
//     with hard module edges.
//
// # Configuration
//
// Configs are built from defaults with functional options:
//
//	cfg, err := render.NewConfig(
//	    render.WithModuleScale(8),
//	    render.WithBorder(2),
//	    render.WithColors("#1e293b", "#ffffff"),
//	    render.WithLogo(render.Logo{Data: dataURL, SizePercent: 20, Background: render.LogoWhite}),
//	)
//
// Invalid values are rejected with an INVALID_CONFIG error and never clamped.
//
// # Logos
//
// The logo is drawn last, on top of the modules, without masking them out.
// Scannability under large logos depends on the error correction level the
// caller picked.
//
// # Export
//
//	img, err := render.RenderSVG(matrix, cfg)
//	png, err := render.ToPNG(ctx, img)
//	os.WriteFile(render.Filename(cfg.CaptionText(), render.KindPNG, time.Now()), png, 0644)
//
// ToPNG does not shell out; shapes are rasterized with oksvg/rasterx and
// embedded logos are decoded and scaled with nearest-neighbour sampling.
package render
