package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var upper = cases.Upper(language.Und)

// Sanitize converts s into an identifier-safe form: accents are folded to
// their base letters, the text is upper-cased, every character outside A-Z and
// 0-9 becomes an underscore, runs of underscores collapse into one and leading
// or trailing underscores are dropped.
func Sanitize(s string) string {
	folded := upper.String(foldAccents(s))

	var b strings.Builder
	b.Grow(len(folded))
	pending := false
	for _, r := range folded {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
