// Package preset loads reusable styling presets from TOML or YAML files.
//
// A preset holds everything except the text to encode:
//
//	ecc = "Q"
//	scale = 12
//	border = 2
//	fg = "#1a1a2e"
//	bg = "#ffffff"
//
//	[logo]
//	file = "brand/logo.png"   # relative to the preset file
//	size = 22
//	background = "white"
//
//	[caption]
//	text = "Acme Corp"
//	color = "#1a1a2e"
//	size = "large"
//
// The format is picked from the file extension (.toml, .yaml, .yml).
package preset

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/brandqr/pkg/errors"
	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/render"
)

// MaxLogoBytes caps logo files referenced by presets.
const MaxLogoBytes = 2 << 20

// Preset is a styling preset.
type Preset struct {
	ECC        string   `toml:"ecc" yaml:"ecc"`
	Scale      float64  `toml:"scale" yaml:"scale"`
	Border     *int     `toml:"border" yaml:"border"`
	Foreground string   `toml:"fg" yaml:"fg"`
	Background string   `toml:"bg" yaml:"bg"`
	Clickable  bool     `toml:"clickable" yaml:"clickable"`
	Logo       *Logo    `toml:"logo" yaml:"logo"`
	Caption    *Caption `toml:"caption" yaml:"caption"`
}

// Logo references an image by file or data URL.
type Logo struct {
	File       string  `toml:"file" yaml:"file"`
	Data       string  `toml:"data" yaml:"data"`
	Size       float64 `toml:"size" yaml:"size"`
	Background string  `toml:"background" yaml:"background"`
	Color      string  `toml:"color" yaml:"color"`
}

// Caption is the branding caption.
type Caption struct {
	Text  string `toml:"text" yaml:"text"`
	Color string `toml:"color" yaml:"color"`
	Size  string `toml:"size" yaml:"size"`
}

// Load reads a preset. Logo files are resolved relative to the preset and
// inlined as data URLs.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	p, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Logo != nil && p.Logo.File != "" && p.Logo.Data == "" {
		file := p.Logo.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(filepath.Dir(path), file)
		}
		if p.Logo.Data, err = LogoDataURL(file); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse decodes a preset in the format named by ext.
func Parse(data []byte, ext string) (*Preset, error) {
	var p Preset
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.Decode(string(data), &p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse toml preset")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown preset key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse yaml preset")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported preset format %q (want .toml, .yaml or .yml)", ext)
	}
	return &p, nil
}

// Options converts the preset into pipeline options for text.
func (p *Preset) Options(text string) (pipeline.Options, error) {
	o := pipeline.Options{
		Text:        text,
		ECC:         p.ECC,
		ModuleScale: p.Scale,
		Border:      p.Border,
		Foreground:  p.Foreground,
		Background:  p.Background,
		Clickable:   p.Clickable,
	}
	if l := p.Logo; l != nil {
		bg, err := render.ParseLogoBackground(l.Background)
		if err != nil {
			return pipeline.Options{}, err
		}
		o.Logo = &render.Logo{Data: l.Data, SizePercent: l.Size, Background: bg, CustomColor: l.Color}
	}
	if c := p.Caption; c != nil {
		size, err := render.ParseCaptionSize(c.Size)
		if err != nil {
			return pipeline.Options{}, err
		}
		o.Caption = &render.Caption{Text: c.Text, Color: c.Color, Size: size}
	}
	return o, nil
}

// Write encodes p in the format named by path's extension.
func Write(path string, p *Preset) error {
	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return err
		}
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported preset format %q", filepath.Ext(path))
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LogoDataURL reads an image file and returns it as a base64 data URL.
func LogoDataURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read logo: %w", err)
	}
	if len(data) > MaxLogoBytes {
		return "", errors.New(errors.ErrCodeInvalidConfig, "logo %s is larger than %d bytes", path, MaxLogoBytes)
	}

	mime := http.DetectContentType(data)
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		mime = "image/svg+xml"
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", errors.New(errors.ErrCodeInvalidConfig, "logo %s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
