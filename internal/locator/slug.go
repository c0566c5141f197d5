package locator

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SlugVariants are the case variants of an element name tried against id and
// name attributes.
type SlugVariants struct {
	Joined     string // "username"
	Hyphen     string // "user-name"
	Underscore string // "user_name"
}

// Empty reports whether the name produced no words.
func (s SlugVariants) Empty() bool {
	return s.Joined == ""
}

// Slug folds name to ASCII-ish lower-case words. Accents are stripped through
// NFKD decomposition and words split on punctuation, spaces and camelCase humps.
func Slug(name string) SlugVariants {
	words := Words(name)
	return SlugVariants{
		Joined:     strings.Join(words, ""),
		Hyphen:     strings.Join(words, "-"),
		Underscore: strings.Join(words, "_"),
	}
}

// Words splits name into lower-case words after Unicode folding.
func Words(name string) []string {
	var (
		words []string
		cur   []rune
		prev  rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range norm.NFKD.String(name) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			prev = 0
			continue
		}
		if unicode.IsUpper(r) && prev != 0 && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			flush()
		}
		cur = append(cur, unicode.ToLower(r))
		prev = r
	}
	flush()
	return words
}
