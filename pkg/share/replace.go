package share

import "strings"

// newReplacer replaces every {{NAME}} token in a single pass, so values that
// themselves contain tokens are never expanded again.
func newReplacer(values map[string]string) *strings.Replacer {
	pairs := make([]string, 0, len(values)*2)
	for _, name := range Placeholders {
		if v, ok := values[name]; ok {
			pairs = append(pairs, Token(name), v)
		}
	}
	return strings.NewReplacer(pairs...)
}
