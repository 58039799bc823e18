package render

import (
	"strings"
	"time"
)

// Kind is the type of an exported artifact.
type Kind string

const (
	KindSVG  Kind = "svg"
	KindPNG  Kind = "png"
	KindHTML Kind = "html"
)

// ContentType returns the MIME type for k.
func (k Kind) ContentType() string {
	switch k {
	case KindSVG:
		return "image/svg+xml"
	case KindPNG:
		return "image/png"
	case KindHTML:
		return "text/html; charset=utf-8"
	}
	return "application/octet-stream"
}

// Filename names an exported artifact: qr-code-{slug}-{timestamp}.{ext}, or
// qr-code-{timestamp}.{ext} without a caption. The slug replaces every
// character outside [A-Za-z0-9] with '-' and lower-cases the rest.
func Filename(caption string, kind Kind, now time.Time) string {
	ts := Timestamp(now)
	if caption == "" {
		return "qr-code-" + ts + "." + string(kind)
	}
	return "qr-code-" + Slug(caption) + "-" + ts + "." + string(kind)
}

// Slug maps caption text to a filename fragment.
func Slug(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Timestamp formats now in UTC as 2006-01-02T15-04-05.
func Timestamp(now time.Time) string {
	return now.UTC().Format("2006-01-02T15-04-05")
}
