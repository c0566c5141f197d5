package locator

import (
	"regexp"
	"strings"
)

// Priority tiers. A candidate's priority is tier*tierWidth plus its position
// within the tier, so priorities rise strictly along the list.
const (
	tierTestID      = 1
	tierID          = 2
	tierName        = 3
	tierPlaceholder = 4
	tierAriaLabel   = 5
	tierRole        = 6
	tierText        = 7
	tierClass       = 8
	tierRawCSS      = 9
	tierXPath       = 10

	tierWidth = 100
)

//nolint:gochecknoglobals // compiled once, immutable
var cssIdent = regexp.MustCompile(`^-?[\p{L}_][\p{L}\p{N}_-]*$`)

// semanticHint is a well-known input purpose with highly stable selectors.
type semanticHint struct {
	name         string
	keywords     []string
	typeCSS      string
	autocomplete []string
}

// semanticHints are checked in order; the first matching hint wins.
//
//nolint:gochecknoglobals // immutable lookup table
var semanticHints = []semanticHint{
	{
		name:         "password",
		keywords:     []string{"password", "passwd", "pwd"},
		typeCSS:      `input[type="password"]`,
		autocomplete: []string{"current-password"},
	},
	{
		name:         "email",
		keywords:     []string{"email", "mail"},
		typeCSS:      `input[type="email"]`,
		autocomplete: []string{"email"},
	},
	{
		name:         "username",
		keywords:     []string{"username", "user", "login"},
		typeCSS:      `input[type="text"][name*="user"]`,
		autocomplete: []string{"username"},
	},
}

// candidateList accumulates strategies, dropping duplicate expressions and
// assigning priorities.
type candidateList struct {
	out    []Strategy
	seen   map[string]struct{}
	tier   int
	offset int
}

func (l *candidateList) enter(tier int) {
	if tier != l.tier {
		l.tier = tier
		l.offset = 0
	}
}

func (l *candidateList) add(s Strategy) {
	if s.Expression == "" {
		return
	}
	if _, dup := l.seen[s.Expression]; dup {
		return
	}
	l.seen[s.Expression] = struct{}{}
	s.Priority = l.tier*tierWidth + l.offset
	l.offset++
	l.out = append(l.out, s)
}

// CandidatesFor returns the ordered candidate strategies for an element.
//
// Observed attribute values are tried before values derived from elementName.
// The list always ends with at least one XPath fallback, so it is never empty.
func CandidatesFor(elementName string, kind ElementKind, attrs Attributes) []Strategy {
	if attrs == nil {
		attrs = Attributes{}
	}
	slug := Slug(elementName)
	l := &candidateList{seen: make(map[string]struct{})}

	l.enter(tierTestID)
	for _, v := range []string{attrs.Get(AttrTestID), slug.Hyphen} {
		if v != "" {
			l.add(Strategy{Type: TypeTestID, Expression: attrCSS(AttrTestID, "=", v), Stable: true, Value: v})
		}
	}

	l.enter(tierID)
	for _, v := range observedThenVariants(attrs.Get(AttrID), slug) {
		l.add(Strategy{Type: TypeID, Expression: idCSS(v), Stable: true, Value: v})
	}

	l.enter(tierName)
	for _, v := range observedThenVariants(attrs.Get(AttrName), slug) {
		l.add(Strategy{Type: TypeName, Expression: attrCSS(AttrName, "=", v), Stable: true, Value: v})
	}
	if kind == KindInput {
		if hint, ok := matchHint(slug, attrs); ok {
			l.add(Strategy{Type: TypeRawCSS, Expression: hint.typeCSS, Stable: true, Value: hint.name})
			for _, ac := range hint.autocomplete {
				l.add(Strategy{Type: TypeRawCSS, Expression: `input` + attrCSS(AttrAutocomplete, "=", ac), Stable: true, Value: ac})
			}
		}
	}

	l.enter(tierPlaceholder)
	if v := attrs.Get(AttrPlaceholder); v != "" {
		l.add(Strategy{Type: TypePlaceholder, Expression: attrCSS(AttrPlaceholder, "=", v), Stable: true, Value: v})
		l.add(Strategy{Type: TypePlaceholderContains, Expression: attrCSS(AttrPlaceholder, "*=", v), Stable: true, Value: v})
	}

	l.enter(tierAriaLabel)
	if v := attrs.Get(AttrAriaLabel); v != "" {
		l.add(Strategy{Type: TypeAriaLabel, Expression: attrCSS(AttrAriaLabel, "=", v), Stable: true, Value: v})
	}

	l.enter(tierRole)
	if name := accessibleName(kind, attrs); name != "" {
		role := kind.Role()
		l.add(Strategy{Type: TypeRoleName, Expression: roleXPath(kind, name), Stable: true, Role: role, Value: name})
	}

	l.enter(tierText)
	if kind == KindButton || kind == KindLink {
		if v := attrs.Get(AttrText); v != "" {
			lit := xpathLiteral(v)
			scope := kindScope(kind)
			l.add(Strategy{Type: TypeTextExact, Expression: "//*[" + scope + "][normalize-space(.)=" + lit + "]", Value: v})
			l.add(Strategy{Type: TypeTextContains, Expression: "//*[" + scope + "][contains(normalize-space(.), " + lit + ")]", Value: v})
		}
	}

	l.enter(tierClass)
	if token := firstClassToken(attrs.Get(AttrClass)); token != "" && !LooksDynamic(token) {
		l.add(Strategy{Type: TypeClassName, Expression: classCSS(token), Value: token})
	}

	l.enter(tierRawCSS)
	if v := attrs.Get(AttrSelector); v != "" {
		if css, ok := StripDynamicClasses(v); ok {
			l.add(Strategy{Type: TypeRawCSS, Expression: css, Value: v})
		}
	}

	l.enter(tierXPath)
	for _, x := range xpathFallbacks(kind, attrs, slug) {
		l.add(Strategy{Type: TypeXPath, Expression: x, Value: x})
	}
	return l.out
}

// observedThenVariants lists the observed value followed by the three slug variants.
func observedThenVariants(observed string, slug SlugVariants) []string {
	out := make([]string, 0, 4)
	for _, v := range []string{observed, slug.Joined, slug.Hyphen, slug.Underscore} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func matchHint(slug SlugVariants, attrs Attributes) (semanticHint, bool) {
	haystack := strings.ToLower(strings.Join([]string{
		slug.Joined, attrs.Get(AttrName), attrs.Get(AttrID), attrs.Get(AttrType), attrs.Get(AttrAutocomplete),
	}, " "))
	for _, h := range semanticHints {
		for _, kw := range h.keywords {
			if strings.Contains(haystack, kw) {
				return h, true
			}
		}
	}
	return semanticHint{}, false
}

func accessibleName(kind ElementKind, attrs Attributes) string {
	if v := attrs.Get(AttrAriaLabel); v != "" {
		return v
	}
	if kind == KindInput {
		return attrs.Get(AttrPlaceholder)
	}
	return attrs.Get(AttrText)
}

// kindScope is the XPath predicate selecting elements that can carry the kind's role.
func kindScope(kind ElementKind) string {
	switch kind {
	case KindInput:
		return "self::input or self::textarea or @role='textbox'"
	case KindLink:
		return "self::a or @role='link'"
	case KindButton:
		return "self::button or @role='button' or (self::input and (@type='submit' or @type='button'))"
	}
	return "self::button or @role='button'"
}

func roleXPath(kind ElementKind, name string) string {
	lit := xpathLiteral(name)
	if kind == KindInput {
		return "//*[" + kindScope(kind) + "][@aria-label=" + lit + " or @placeholder=" + lit + "]"
	}
	return "//*[" + kindScope(kind) + "][normalize-space(.)=" + lit + " or @aria-label=" + lit + " or @value=" + lit + "]"
}

func xpathFallbacks(kind ElementKind, attrs Attributes, slug SlugVariants) []string {
	var out []string
	if v := attrs.Get(AttrXPath); v != "" {
		out = append(out, v)
	}
	if v := attrs.Get(AttrText); v != "" {
		out = append(out, "//*[text()[contains(normalize-space(.), "+xpathLiteral(v)+")]]")
	}
	if v := attrs.Get(AttrName); v != "" {
		out = append(out, "//*[@name="+xpathLiteral(v)+"]")
	}
	if v := attrs.Get(AttrPlaceholder); v != "" {
		out = append(out, "//*[@placeholder="+xpathLiteral(v)+"]")
	}
	if len(out) == 0 && !slug.Empty() {
		lit := xpathLiteral(slug.Joined)
		out = append(out, "//*[@id="+lit+" or @name="+lit+"]")
	}
	if len(out) == 0 {
		out = append(out, "(//*["+kindScope(kind)+"])[1]")
	}
	return out
}

func firstClassToken(class string) string {
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func attrCSS(attr, op, v string) string {
	return "[" + attr + op + cssString(v) + "]"
}

func idCSS(v string) string {
	if cssIdent.MatchString(v) {
		return "#" + v
	}
	return attrCSS(AttrID, "=", v)
}

func classCSS(token string) string {
	if cssIdent.MatchString(token) {
		return "." + token
	}
	return "[class~=" + cssString(token) + "]"
}
