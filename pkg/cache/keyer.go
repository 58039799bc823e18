package cache

import "strings"

// Keyer derives cache keys for the artifacts of the rendering pipeline.
type Keyer interface {
	// VectorKey identifies a rendered SVG for the given input and styling.
	VectorKey(opts VectorKeyOpts) string
	// RasterKey identifies a PNG export of an already rendered SVG.
	RasterKey(vectorHash string, scale int) string
	// ShareKey identifies a stored share document.
	ShareKey(id string) string
	// TemplateKey identifies a fetched share template.
	TemplateKey(source string) string
}

// VectorKeyOpts holds everything that changes the SVG output.
// Logo data is hashed by the caller to keep keys small.
type VectorKeyOpts struct {
	Text         string  `json:"text"`
	ECC          string  `json:"ecc"`
	ModuleScale  float64 `json:"scale"`
	Border       int     `json:"border"`
	Foreground   string  `json:"fg"`
	Background   string  `json:"bg"`
	LogoHash     string  `json:"logo,omitempty"`
	LogoSize     float64 `json:"logo_size,omitempty"`
	LogoBacking  string  `json:"logo_bg,omitempty"`
	LogoColor    string  `json:"logo_color,omitempty"`
	CaptionText  string  `json:"caption,omitempty"`
	CaptionColor string  `json:"caption_color,omitempty"`
	CaptionSize  string  `json:"caption_size,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) VectorKey(opts VectorKeyOpts) string {
	opts.ECC = strings.ToUpper(opts.ECC)
	return hashKey("svg", opts)
}

func (DefaultKeyer) RasterKey(vectorHash string, scale int) string {
	return hashKey("png", vectorHash, scale)
}

func (DefaultKeyer) ShareKey(id string) string {
	return "share:" + id
}

func (DefaultKeyer) TemplateKey(source string) string {
	return hashKey("tmpl", source)
}

var _ Keyer = DefaultKeyer{}
