package share

import "strings"

// WhatsAppURL returns a wa.me link that pre-fills a message pointing at shareURL.
func WhatsAppURL(shareURL string) string {
	return "https://wa.me/?text=" + encodeURIComponent(WhatsAppMessage+shareURL)
}

// encodeURIComponent escapes like the JavaScript function of the same name,
// which leaves A-Z a-z 0-9 and -_.!~*'() unescaped. url.QueryEscape differs
// (space becomes '+', '~' is kept but '!' is not).
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}
