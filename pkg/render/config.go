package render

import (
	"math"
	"strings"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// Defaults used by NewConfig.
const (
	DefaultModuleScale = 10
	DefaultBorder      = 4
	DefaultForeground  = "#000000"
	DefaultBackground  = "#ffffff"
	DefaultLogoPercent = 20
)

// LogoBackground selects what is drawn behind the logo.
type LogoBackground string

const (
	LogoNone   LogoBackground = "none"
	LogoWhite  LogoBackground = "white"
	LogoCustom LogoBackground = "custom"
)

// CaptionSize is the size class of the caption shown under the code.
type CaptionSize string

const (
	CaptionSmall  CaptionSize = "small"
	CaptionMedium CaptionSize = "medium"
	CaptionLarge  CaptionSize = "large"
)

// Logo is an image overlaid at the center of the code.
type Logo struct {
	// Data is the image as a data URL (data:image/png;base64,...).
	Data string `json:"data" toml:"data" yaml:"data"`
	// SizePercent is the logo side as a percentage of the canvas, in (0, 100].
	SizePercent float64        `json:"sizePercent" toml:"size_percent" yaml:"size_percent"`
	Background  LogoBackground `json:"background" toml:"background" yaml:"background"`
	// CustomColor is used when Background is LogoCustom.
	CustomColor string `json:"customColor,omitempty" toml:"custom_color" yaml:"custom_color"`
}

// BackingColor returns the fill of the backing shape, or "" for LogoNone.
func (l Logo) BackingColor() string {
	switch l.Background {
	case LogoWhite:
		return "#ffffff"
	case LogoCustom:
		return l.CustomColor
	}
	return ""
}

// Caption is branding text. It is not part of the vector image; share pages
// and filenames use it.
type Caption struct {
	Text  string      `json:"text" toml:"text" yaml:"text"`
	Color string      `json:"color" toml:"color" yaml:"color"`
	Size  CaptionSize `json:"size" toml:"size" yaml:"size"`
}

// Config describes how a matrix is drawn. The zero value is invalid; use
// NewConfig or fill every field.
type Config struct {
	ModuleScale float64  `json:"moduleScale"`
	Border      int      `json:"border"`
	Foreground  string   `json:"foreground"`
	Background  string   `json:"background"`
	Logo        *Logo    `json:"logo,omitempty"`
	Caption     *Caption `json:"caption,omitempty"`
}

// ConfigOption modifies a Config under construction.
type ConfigOption func(*Config)

func WithModuleScale(s float64) ConfigOption { return func(c *Config) { c.ModuleScale = s } }
func WithBorder(b int) ConfigOption           { return func(c *Config) { c.Border = b } }
func WithColors(fg, bg string) ConfigOption {
	return func(c *Config) { c.Foreground, c.Background = fg, bg }
}
func WithLogo(l Logo) ConfigOption       { return func(c *Config) { c.Logo = &l } }
func WithCaption(cp Caption) ConfigOption { return func(c *Config) { c.Caption = &cp } }

// DefaultConfig returns the defaults without validation.
func DefaultConfig() Config {
	return Config{
		ModuleScale: DefaultModuleScale,
		Border:      DefaultBorder,
		Foreground:  DefaultForeground,
		Background:  DefaultBackground,
	}
}

// NewConfig applies opts to the defaults and validates the result.
func NewConfig(opts ...ConfigOption) (Config, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// CaptionText returns the caption text or "".
func (c Config) CaptionText() string {
	if c.Caption == nil {
		return ""
	}
	return c.Caption.Text
}

// Validate reports the first invalid field as an INVALID_CONFIG error.
func (c Config) Validate() error {
	if err := c.validateGeometry(); err != nil {
		return err
	}
	if _, err := ParseColor(c.Foreground); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "foreground")
	}
	if _, err := ParseColor(c.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "background")
	}
	if l := c.Logo; l != nil {
		if err := errors.ValidateDataURL(l.Data); err != nil {
			return err
		}
		switch l.Background {
		case LogoNone, LogoWhite:
		case LogoCustom:
			if _, err := ParseColor(l.CustomColor); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "logo background")
			}
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "unknown logo background %q (want none, white or custom)", l.Background)
		}
	}
	if cp := c.Caption; cp != nil {
		if err := errors.ValidateCaption(cp.Text); err != nil {
			return err
		}
		if _, err := ParseColor(cp.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "caption color")
		}
		if _, err := ParseCaptionSize(string(cp.Size)); err != nil {
			return err
		}
	}
	return nil
}

// validateGeometry checks the fields Plan depends on.
func (c Config) validateGeometry() error {
	if c.ModuleScale <= 0 || math.IsNaN(c.ModuleScale) || math.IsInf(c.ModuleScale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "module scale must be a positive number, got %v", c.ModuleScale)
	}
	if c.Border < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "border must be non-negative, got %d", c.Border)
	}
	if l := c.Logo; l != nil {
		if !(l.SizePercent > 0 && l.SizePercent <= 100) {
			return errors.New(errors.ErrCodeInvalidConfig, "logo size must be in (0, 100] percent, got %v", l.SizePercent)
		}
	}
	return nil
}

// ParseLogoBackground accepts none, white or custom in any case.
func ParseLogoBackground(s string) (LogoBackground, error) {
	switch b := LogoBackground(strings.ToLower(strings.TrimSpace(s))); b {
	case LogoNone, LogoWhite, LogoCustom:
		return b, nil
	case "":
		return LogoNone, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown logo background %q (want none, white or custom)", s)
}

// ParseCaptionSize accepts small, medium or large; empty means medium.
func ParseCaptionSize(s string) (CaptionSize, error) {
	switch cs := CaptionSize(strings.ToLower(strings.TrimSpace(s))); cs {
	case CaptionSmall, CaptionMedium, CaptionLarge:
		return cs, nil
	case "":
		return CaptionMedium, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown caption size %q (want small, medium or large)", s)
}
