// Package urlclass decides whether free text is a link.
//
// Users type "example.com/menu" as often as "https://example.com/menu", so
// besides absolute URLs a bare-domain heuristic is accepted: one or more
// dot-terminated labels, a top-level label of two or more letters and an
// optional path. Both functions are total; malformed input is simply not a URL.
//
// The heuristic is deliberately loose and will accept text such as "readme.md".
package urlclass

import (
	"net/url"
	"regexp"
	"strings"
)

var bareDomain = regexp.MustCompile(`^([A-Za-z0-9-]+\.)+[A-Za-z]{2,}(/.*)?$`)

// specialSchemes need an authority to be usable.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ftp": true, "ws": true, "wss": true,
}

// IsURL reports whether text is an absolute URL or looks like a bare domain.
func IsURL(text string) bool {
	return IsAbsolute(text) || bareDomain.MatchString(text)
}

// IsAbsolute reports whether text parses as a URL with a scheme.
func IsAbsolute(text string) bool {
	if text == "" || strings.ContainsAny(text, "\t\n\r") {
		return false
	}
	u, err := url.Parse(text)
	if err != nil || u.Scheme == "" {
		return false
	}
	if specialSchemes[strings.ToLower(u.Scheme)] {
		return u.Host != ""
	}
	return u.Opaque != "" || u.Host != "" || u.Path != ""
}

// Normalize returns absolute URLs unchanged, prefixes bare domains with
// https:// and returns any other text unchanged. Callers still need IsURL
// before treating the result as a link.
func Normalize(text string) string {
	if IsAbsolute(text) {
		return text
	}
	if IsURL(text) {
		return "https://" + text
	}
	return text
}

// IsWebLink reports whether text normalizes to an http or https URL. IsURL
// also accepts other schemes such as mailto: or javascript:, so callers that
// open links check this as well.
func IsWebLink(text string) bool {
	if !IsURL(text) {
		return false
	}
	u, err := url.Parse(Normalize(text))
	if err != nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "http" || s == "https"
}
