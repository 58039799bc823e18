package render

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// ParseColor parses an opaque #rgb or #rrggbb color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidConfig, "invalid color %q (want #rgb or #rrggbb)", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Contrast returns the WCAG contrast ratio between two colors, from 1 to 21.
// The CLI warns when foreground and background are too close to scan reliably.
func Contrast(a, b color.Color) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

func luminance(c color.Color) float64 {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}
