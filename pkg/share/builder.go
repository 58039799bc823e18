// Package share builds standalone HTML pages that embed a rendered QR code.
//
// A page is produced by substituting six placeholders into an HTML template:
//
//	{{TITLE}}           caption text, or "QR Code"
//	{{SUBTITLE}}        action text for links, neutral text otherwise
//	{{QR_SVG}}          the vector image, inserted verbatim
//	{{BRAND_TEXT}}      styled caption snippet, or empty
//	{{TARGET_URL}}      the encoded text as typed
//	{{NORMALIZED_URL}}  the absolute link for URLs, else the text as typed
//
// Every occurrence of each placeholder is replaced. Templates come from a
// [Source]; when loading fails the embedded [DefaultTemplate] is used, so
// building a page never fails.
//
// Pages can be persisted in a [Store] and served by the HTTP server under a
// random ID.
package share

import (
	"fmt"
	"html"

	"github.com/matzehuels/brandqr/pkg/render"
	"github.com/matzehuels/brandqr/pkg/urlclass"
)

// Fallback strings.
const (
	DefaultTitle    = "QR Code"
	SubtitleURL     = "Tap the QR code to open instantly!"
	SubtitlePlain   = "Scan or share this QR code"
	WhatsAppMessage = "Check out this QR code: "
)

// Input is everything a share page is built from.
type Input struct {
	// Text is the encoded text, exactly as it went into the encoder.
	Text    string
	Image   render.VectorImage
	Caption *render.Caption
}

// Document is a finished share page.
type Document struct {
	HTML  string `json:"html" bson:"html"`
	Title string `json:"title" bson:"title"`
	IsURL bool   `json:"isUrl" bson:"is_url"`
}

// Builder fills a template. The zero value uses DefaultTemplate.
type Builder struct {
	template string
}

// NewBuilder returns a builder for tmpl. An empty or incomplete template
// falls back to DefaultTemplate.
func NewBuilder(tmpl string) *Builder {
	if ValidateTemplate(tmpl) != nil {
		tmpl = DefaultTemplate
	}
	return &Builder{template: tmpl}
}

// Template returns the template in use.
func (b *Builder) Template() string {
	if b == nil || b.template == "" {
		return DefaultTemplate
	}
	return b.template
}

// Build substitutes in into the template. QR_SVG receives in.Image.Inline(),
// the SVG document without its XML prolog and doctype, so it can sit inside
// HTML. NORMALIZED_URL is substituted for every URL, web or not; the default
// template carries a Content-Security-Policy that keeps javascript: links
// from running.
func (b *Builder) Build(in Input) Document {
	isURL := urlclass.IsURL(in.Text)

	title := DefaultTitle
	brand := ""
	if in.Caption != nil && in.Caption.Text != "" {
		title = in.Caption.Text
		brand = brandSnippet(*in.Caption)
	}

	subtitle := SubtitlePlain
	normalized := in.Text
	if isURL {
		subtitle = SubtitleURL
		normalized = urlclass.Normalize(in.Text)
	}

	r := newReplacer(map[string]string{
		Title:         html.EscapeString(title),
		Subtitle:      html.EscapeString(subtitle),
		QRSVG:         in.Image.Inline(),
		BrandText:     brand,
		TargetURL:     html.EscapeString(in.Text),
		NormalizedURL: html.EscapeString(normalized),
	})
	return Document{
		HTML:  r.Replace(b.Template()),
		Title: title,
		IsURL: isURL,
	}
}

func brandSnippet(c render.Caption) string {
	size := c.Size
	if size == "" {
		size = render.CaptionMedium
	}
	return fmt.Sprintf(`<div class="brand-text %s" style="color: %s;">%s</div>`,
		html.EscapeString(string(size)), html.EscapeString(c.Color), html.EscapeString(c.Text))
}
