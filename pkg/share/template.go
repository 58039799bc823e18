package share

import (
	_ "embed"
	"strings"

	"github.com/matzehuels/brandqr/pkg/errors"
)

// Placeholder names. Templates reference them as {{NAME}}.
const (
	Title         = "TITLE"
	Subtitle      = "SUBTITLE"
	QRSVG         = "QR_SVG"
	BrandText     = "BRAND_TEXT"
	TargetURL     = "TARGET_URL"
	NormalizedURL = "NORMALIZED_URL"
)

// Placeholders lists every placeholder a template must contain.
var Placeholders = []string{Title, Subtitle, QRSVG, BrandText, TargetURL, NormalizedURL}

// DefaultTemplate is the built-in share page.
//
//go:embed default.html
var DefaultTemplate string

// Token returns the template token for a placeholder name.
func Token(name string) string {
	return "{{" + name + "}}"
}

// ValidateTemplate checks that tmpl references all placeholders.
func ValidateTemplate(tmpl string) error {
	var missing []string
	for _, p := range Placeholders {
		if !strings.Contains(tmpl, Token(p)) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeInvalidTemplate, "template is missing placeholders: %s", strings.Join(missing, ", "))
	}
	return nil
}
