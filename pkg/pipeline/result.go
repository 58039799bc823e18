package pipeline

import (
	"time"

	"github.com/matzehuels/brandqr/pkg/render"
	"github.com/matzehuels/brandqr/pkg/urlclass"
)

// Click status lines shown next to the preview.
const (
	ClickStatusNotURL = "Content is not a URL"
	clickStatusOpens  = "QR code is clickable - opens "
)

// ariaTextLimit is how much of the text AriaLabel quotes.
const ariaTextLimit = 100

// IsURL reports whether the encoded text classifies as a URL.
func (r *Result) IsURL() bool {
	return urlclass.IsURL(r.Text)
}

// Clickable reports whether the preview should link to the encoded URL.
func (r *Result) Clickable() bool {
	return r.ClickRequested && r.IsURL()
}

// Link returns the normalized link target, or "" when not clickable.
func (r *Result) Link() string {
	if !r.Clickable() {
		return ""
	}
	return urlclass.Normalize(r.Text)
}

// ClickStatus returns the status line for the clickable toggle, or "" when
// clicking was not requested.
func (r *Result) ClickStatus() string {
	switch {
	case !r.ClickRequested:
		return ""
	case r.IsURL():
		return clickStatusOpens + urlclass.Normalize(r.Text)
	default:
		return ClickStatusNotURL
	}
}

// AriaLabel is the accessible name of the preview.
func (r *Result) AriaLabel() string {
	runes := []rune(r.Text)
	if len(runes) <= ariaTextLimit {
		return "QR code for: " + r.Text
	}
	return "QR code for: " + string(runes[:ariaTextLimit]) + "..."
}

// Filename returns the download name for kind at now.
func (r *Result) Filename(kind render.Kind, now time.Time) string {
	return render.Filename(r.Config.CaptionText(), kind, now)
}
