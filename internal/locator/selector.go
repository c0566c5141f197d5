package locator

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // compiled once, immutable
var (
	attrRe    = regexp.MustCompile(`\[\s*([\w-]+)\s*([*^$~|]?=)\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'|([^\]\s]*))\s*(?:[is]\s*)?\]`)
	hasTextRe = regexp.MustCompile(`:has-text\(\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')\s*\)`)
	pseudoRe  = regexp.MustCompile(`::?[\w-]+(?:\([^)]*\))?`)
	idRe      = regexp.MustCompile(`#([\p{L}\p{N}_-]+)`)
	classRe   = regexp.MustCompile(`\.([\p{L}\p{N}_-]+)`)
	tagRe     = regexp.MustCompile(`^([a-zA-Z][\w-]*)`)
	roleRe    = regexp.MustCompile(`^role=([\w-]+)(?:\s*\[\s*name\s*=\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)'|([^\]]*))\s*(?:[is]\s*)?\])?`)
)

// AttributesFromSelector derives the observed attributes of an element from the
// selector a recording used for it. Only the last compound of a descendant
// selector is inspected. The selector itself is always kept under AttrSelector
// or AttrXPath.
func AttributesFromSelector(sel string) Attributes {
	sel = strings.TrimSpace(sel)
	attrs := Attributes{}
	if sel == "" {
		return attrs
	}

	switch {
	case strings.HasPrefix(sel, "xpath="):
		attrs[AttrXPath] = strings.TrimSpace(strings.TrimPrefix(sel, "xpath="))
		return attrs
	case strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "("):
		attrs[AttrXPath] = sel
		return attrs
	case strings.HasPrefix(sel, "text="):
		attrs[AttrText] = unquoteSelectorText(strings.TrimPrefix(sel, "text="))
		return attrs
	case strings.HasPrefix(sel, "role="):
		if m := roleRe.FindStringSubmatch(sel); m != nil {
			attrs[AttrRole] = strings.ToLower(m[1])
			if name := firstNonEmpty(m[2], m[3], strings.TrimSpace(m[4])); name != "" {
				attrs[AttrText] = unescapeCSS(name)
			}
		}
		return attrs
	case strings.HasPrefix(sel, "data-testid="):
		attrs[AttrTestID] = unquoteSelectorText(strings.TrimPrefix(sel, "data-testid="))
		return attrs
	case strings.HasPrefix(sel, "css="):
		sel = strings.TrimSpace(strings.TrimPrefix(sel, "css="))
	}

	attrs[AttrSelector] = sel
	compound := lastCompound(sel)

	if m := hasTextRe.FindStringSubmatch(compound); m != nil {
		attrs[AttrText] = unescapeCSS(firstNonEmpty(m[1], m[2]))
	}
	compound = hasTextRe.ReplaceAllString(compound, "")

	for _, m := range attrRe.FindAllStringSubmatch(compound, -1) {
		if m[2] != "=" {
			continue
		}
		key := strings.ToLower(m[1])
		switch key {
		case AttrID, AttrName, AttrTestID, AttrPlaceholder, AttrAriaLabel, AttrType,
			AttrAutocomplete, AttrRole, AttrClass:
			attrs[key] = unescapeCSS(firstNonEmpty(m[3], m[4], m[5]))
		case "data-test", "data-test-id", "data-qa", "data-cy":
			if attrs[AttrTestID] == "" {
				attrs[AttrTestID] = unescapeCSS(firstNonEmpty(m[3], m[4], m[5]))
			}
		}
	}
	compound = attrRe.ReplaceAllString(compound, "")
	compound = pseudoRe.ReplaceAllString(compound, "")

	if m := idRe.FindStringSubmatch(compound); m != nil && attrs[AttrID] == "" {
		attrs[AttrID] = m[1]
	}
	if ms := classRe.FindAllStringSubmatch(compound, -1); len(ms) > 0 && attrs[AttrClass] == "" {
		tokens := make([]string, 0, len(ms))
		for _, m := range ms {
			tokens = append(tokens, m[1])
		}
		attrs[AttrClass] = strings.Join(tokens, " ")
	}
	if m := tagRe.FindStringSubmatch(compound); m != nil {
		attrs[AttrTag] = strings.ToLower(m[1])
	}
	return attrs
}

// lastCompound returns the part of sel after the last combinator that is not
// inside brackets, parentheses or quotes.
func lastCompound(sel string) string {
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
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
		case depth == 0 && (c == ' ' || c == '>' || c == '+' || c == '~'):
			start = i + 1
		}
	}
	return strings.TrimSpace(sel[start:])
}

// unquoteSelectorText strips one layer of matching quotes.
func unquoteSelectorText(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return unescapeCSS(v[1 : len(v)-1])
	}
	return v
}

func unescapeCSS(v string) string {
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) {
			i++
		}
		b.WriteByte(v[i])
	}
	return b.String()
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
