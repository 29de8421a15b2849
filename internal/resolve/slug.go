package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFKD and drops the combining marks, so
// "Hélène" and "Helene" slug identically.
var stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var separatorRuns = regexp.MustCompile(`_+`)

// Slugify normalizes a name for approximate matching: accent-stripped,
// alphanumerics/space/hyphen/underscore only, separator runs collapsed,
// lowercase. An empty result falls back to "anonymous".
func Slugify(value string) string {
	stripped, _, err := transform.String(stripAccents, value)
	if err != nil {
		stripped = value
	}

	var b strings.Builder
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}

	slug := separatorRuns.ReplaceAllString(b.String(), "_")
	slug = strings.ToLower(strings.Trim(slug, "_"))
	if slug == "" {
		return "anonymous"
	}
	return slug
}
