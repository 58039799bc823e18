// Package pkg provides the core libraries for brandqr.
//
// # Overview
//
// brandqr turns text into styled QR codes with an optional centered logo,
// exports them as SVG and PNG, and packages them into shareable HTML pages.
// The pkg directory is organized into these areas:
//
//  1. [qr] - Module matrices, error correction levels and the encoder
//  2. [render] - Geometry planning, SVG rendering and PNG export
//  3. [urlclass] - Deciding whether text is a link
//  4. [share] - Share page templates, building and storage
//  5. [pipeline] - Orchestration (encode → render → export/share) with caching
//  6. [cache], [httputil], [observability] - Infrastructure
//  7. [preset], [server] - Styling presets and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	text + options
//	      ↓
//	 [qr] package (encode to a module matrix)
//	      ↓
//	 [render] package (plan geometry, draw SVG)
//	      ↓
//	 SVG ──→ PNG (4× supersampled)
//	  └───→ [share] HTML page
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil, nil)
//	res, err := runner.Generate(ctx, pipeline.Options{
//	    Text:    "example.com",
//	    Caption: &render.Caption{Text: "Acme Corp"},
//	})
//	if err != nil {
//	    return err
//	}
//	png, err := runner.ExportPNG(ctx, res)
//	page := runner.Share(ctx, res)
//
// [qr]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/qr
// [render]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/render
// [urlclass]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/urlclass
// [share]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/share
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/observability
// [preset]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/preset
// [server]: https://pkg.go.dev/github.com/matzehuels/brandqr/pkg/server
package pkg
