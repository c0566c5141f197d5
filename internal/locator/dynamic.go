package locator

import "strings"

// Thresholds for the generated-class heuristics.
const (
	minDigitRun  = 4
	minHexSuffix = 8
)

// generatedMarkers are prefixes emitted by CSS-in-JS and component frameworks.
//
//nolint:gochecknoglobals // immutable lookup table
var generatedMarkers = []string{
	"css-", "sc-", "jss", "emotion-", "makestyles-", "svelte-", "_ngcontent", "ng-tns-",
}

// HasLongDigitRun reports whether token holds 4 or more consecutive digits.
func HasLongDigitRun(token string) bool {
	run := 0
	for i := 0; i < len(token); i++ {
		if token[i] >= '0' && token[i] <= '9' {
			run++
			if run >= minDigitRun {
				return true
			}
			continue
		}
		run = 0
	}
	return false
}

// HasHexSuffix reports whether the part after the last hyphen is 8 or more hex
// characters (e.g. "card-3fa9c01b").
func HasHexSuffix(token string) bool {
	i := strings.LastIndexByte(token, '-')
	if i < 0 {
		return false
	}
	suffix := token[i+1:]
	if len(suffix) < minHexSuffix {
		return false
	}
	for j := 0; j < len(suffix); j++ {
		if !isHex(suffix[j]) {
			return false
		}
	}
	return true
}

// HasGeneratedMarker reports whether token starts with a known generated-class prefix.
func HasGeneratedMarker(token string) bool {
	lower := strings.ToLower(token)
	for _, m := range generatedMarkers {
		if strings.HasPrefix(lower, m) {
			return true
		}
	}
	return false
}

// LooksDynamic reports whether a class token is likely to change between builds.
// Such tokens are never offered as candidates.
func LooksDynamic(token string) bool {
	return HasLongDigitRun(token) || HasHexSuffix(token) || HasGeneratedMarker(token)
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// StripDynamicClasses removes every dynamic-looking ".token" from a CSS
// selector, leaving quoted strings, attribute brackets and pseudo-class
// arguments untouched. A compound emptied before a combinator becomes "*".
// It returns false when the target compound itself is left with no
// constraint, since the remainder would match unrelated elements.
func StripDynamicClasses(sel string) (string, bool) {
	segments := splitCompounds(sel)
	last := -1
	for i, s := range segments {
		if !s.combinator {
			last = i
		}
	}

	var b strings.Builder
	for i, s := range segments {
		if s.combinator {
			b.WriteString(s.text)
			continue
		}
		stripped := stripCompound(s.text)
		if stripped == "" {
			if i == last {
				return "", false
			}
			stripped = "*"
		}
		b.WriteString(stripped)
	}
	return b.String(), last >= 0
}

type selectorSegment struct {
	text       string
	combinator bool
}

// splitCompounds cuts sel into compounds and the combinator runs between them.
func splitCompounds(sel string) []selectorSegment {
	var (
		out   []selectorSegment
		start int
		depth int
		quote byte
	)
	isComb := func(c byte) bool { return c == ' ' || c == '\t' || c == '>' || c == '+' || c == '~' }
	emit := func(end int, comb bool) {
		if end > start {
			out = append(out, selectorSegment{text: sel[start:end], combinator: comb})
		}
		start = end
	}

	inComb := false
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			if depth > 0 {
				depth--
			}
		}
		comb := depth == 0 && quote == 0 && isComb(c)
		if comb != inComb {
			emit(i, inComb)
			inComb = comb
		}
	}
	emit(len(sel), inComb)
	return out
}

// stripCompound drops dynamic class tokens outside brackets and quotes.
func stripCompound(compound string) string {
	var (
		b     strings.Builder
		depth int
		quote byte
	)
	for i := 0; i < len(compound); i++ {
		c := compound[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(compound) {
				b.WriteByte(c)
				i++
				c = compound[i]
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			if depth > 0 {
				depth--
			}
		case c == '.' && depth == 0:
			j := i + 1
			for j < len(compound) && isIdentByte(compound[j]) {
				j++
			}
			if j > i+1 && LooksDynamic(compound[i+1:j]) {
				i = j - 1
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// isIdentByte accepts CSS identifier bytes, treating every non-ASCII byte as
// part of a name.
func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
