package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxExtensionLen is the longest trailing ".xxx" suffix discarded from a label.
const maxExtensionLen = 3

// StripNumber removes a leading ordering prefix such as "01 - " or "02_" and a
// trailing extension of up to three characters.
//
// The prefix is the longest leading run of digits, hyphens, underscores and
// whitespace that ends in a hyphen, underscore or whitespace character. Only
// the last dot-suffix is treated as an extension, so "My.Favorite.Song.mp3"
// yields "My.Favorite.Song".
func StripNumber(name string) string {
	core := trimExtension(name)

	cut := 0
	for i, r := range core {
		if !isOrderingRune(r) {
			break
		}
		if isSeparatorRune(r) {
			cut = i + utf8.RuneLen(r)
		}
	}
	return core[cut:]
}

func trimExtension(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return name
	}
	if utf8.RuneCountInString(name[dot+1:]) > maxExtensionLen {
		return name
	}
	return name[:dot]
}

func isOrderingRune(r rune) bool {
	return unicode.IsDigit(r) || isSeparatorRune(r)
}

func isSeparatorRune(r rune) bool {
	return r == '-' || r == '_' || unicode.IsSpace(r)
}
