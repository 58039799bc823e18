// Package pipeline ties the brandqr stages together for the CLI, the HTTP
// server and the terminal preview.
//
// # Architecture
//
// One generation runs three steps:
//
//  1. Encode: text → module matrix via a [qr.Encoder]
//  2. Plan: matrix size + render config → geometry
//  3. Render: matrix + config → SVG
//
// Raster export and share pages are derived from the resulting [Result] on
// demand. By centralizing this, every entry point validates, defaults and
// caches the same way.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, cache, nil, logger)
//	res, err := runner.Generate(ctx, pipeline.Options{
//	    Text:    "https://example.com",
//	    Caption: &render.Caption{Text: "Acme"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png, err := runner.ExportPNG(ctx, res)
//	doc := runner.Share(ctx, res)
//
// Interactive callers keep the latest result in a [Session].
package pipeline

import (
	"strings"
	"time"

	"github.com/matzehuels/brandqr/pkg/cache"
	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/qr"
	"github.com/matzehuels/brandqr/pkg/render"
)

// Options is one generation request. It decodes from JSON (HTTP API), TOML
// and YAML (presets). Zero fields take render defaults; Border is a pointer
// because 0 is a valid border.
type Options struct {
	Text        string          `json:"text" toml:"text" yaml:"text"`
	ECC         string          `json:"ecc,omitempty" toml:"ecc" yaml:"ecc"`
	ModuleScale float64         `json:"scale,omitempty" toml:"scale" yaml:"scale"`
	Border      *int            `json:"border,omitempty" toml:"border" yaml:"border"`
	Foreground  string          `json:"fg,omitempty" toml:"fg" yaml:"fg"`
	Background  string          `json:"bg,omitempty" toml:"bg" yaml:"bg"`
	Logo        *render.Logo    `json:"logo,omitempty" toml:"logo" yaml:"logo"`
	Caption     *render.Caption `json:"caption,omitempty" toml:"caption" yaml:"caption"`

	// Clickable asks for the preview to link to the encoded URL. It has no
	// effect on the image.
	Clickable bool `json:"clickable,omitempty" toml:"clickable" yaml:"clickable"`

	// Refresh bypasses the vector cache.
	Refresh bool `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result is one finished generation. It is never modified after Generate
// returns, so it can be exported and shared concurrently.
type Result struct {
	Text     string
	Level    qr.ECCLevel
	Matrix   qr.Matrix
	Config   render.Config
	Geometry render.Geometry
	Image    render.VectorImage

	// ClickRequested mirrors Options.Clickable.
	ClickRequested bool

	CreatedAt time.Time
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing information.
type Stats struct {
	EncodeTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which steps hit the cache.
type CacheInfo struct {
	VectorHit bool
}

// ValidateAndSetDefaults trims the text, validates every field and applies
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.Text = strings.TrimSpace(o.Text)
	if err := errors.ValidateText(o.Text); err != nil {
		return err
	}
	o.ECC = o.Level().Letter()

	if o.ModuleScale == 0 {
		o.ModuleScale = render.DefaultModuleScale
	}
	if o.Border == nil {
		b := render.DefaultBorder
		o.Border = &b
	}
	if o.Foreground == "" {
		o.Foreground = render.DefaultForeground
	}
	if o.Background == "" {
		o.Background = render.DefaultBackground
	}

	if o.Logo != nil {
		if err := errors.ValidateDataURL(o.Logo.Data); err != nil {
			return err
		}
		logo := *o.Logo
		if logo.SizePercent == 0 {
			logo.SizePercent = render.DefaultLogoPercent
		}
		if logo.Background == "" {
			logo.Background = render.LogoNone
		}
		o.Logo = &logo
	}

	if o.Caption != nil {
		if err := errors.ValidateCaption(o.Caption.Text); err != nil {
			return err
		}
		caption := *o.Caption
		if caption.Color == "" {
			caption.Color = o.Foreground
		}
		if caption.Size == "" {
			caption.Size = render.CaptionMedium
		}
		o.Caption = &caption
	}

	if _, err := o.RenderConfig(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Level returns the requested ECC level. Unknown values fall back to
// qr.DefaultECC.
func (o *Options) Level() qr.ECCLevel {
	return qr.ParseECCLevelOr(o.ECC, qr.DefaultECC)
}

// RenderConfig builds the validated render configuration.
func (o *Options) RenderConfig() (render.Config, error) {
	opts := []render.ConfigOption{render.WithColors(o.Foreground, o.Background)}
	if o.ModuleScale != 0 {
		opts = append(opts, render.WithModuleScale(o.ModuleScale))
	}
	if o.Border != nil {
		opts = append(opts, render.WithBorder(*o.Border))
	}
	if o.Logo != nil {
		opts = append(opts, render.WithLogo(*o.Logo))
	}
	if o.Caption != nil && o.Caption.Text != "" {
		opts = append(opts, render.WithCaption(*o.Caption))
	}
	return render.NewConfig(opts...)
}

// VectorKeyOpts returns cache key options for the rendered SVG.
func (o *Options) VectorKeyOpts() cache.VectorKeyOpts {
	k := cache.VectorKeyOpts{
		Text:        o.Text,
		ECC:         o.ECC,
		ModuleScale: o.ModuleScale,
		Foreground:  o.Foreground,
		Background:  o.Background,
	}
	if o.Border != nil {
		k.Border = *o.Border
	}
	if o.Logo != nil {
		k.LogoHash = cache.HashString(o.Logo.Data)
		k.LogoSize = o.Logo.SizePercent
		k.LogoBacking = string(o.Logo.Background)
		k.LogoColor = o.Logo.CustomColor
	}
	if o.Caption != nil {
		k.CaptionText = o.Caption.Text
		k.CaptionColor = o.Caption.Color
		k.CaptionSize = string(o.Caption.Size)
	}
	return k
}

// IntPtr returns a pointer to v, for filling Options.Border.
func IntPtr(v int) *int { return &v }
