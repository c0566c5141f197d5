// Package locator builds ordered lists of candidate strategies for finding an
// element on a page.
//
// The catalog is a pure function of its inputs: identical element names, kinds
// and observed attributes always produce byte-identical candidate lists, which
// lets the serialized list double as a cache key.
package locator

import (
	"strings"
)

// StrategyType discriminates the ways an element can be located.
type StrategyType string

// Strategy types, roughly in the order the catalog tries them.
const (
	TypeTestID              StrategyType = "test_id"
	TypeID                  StrategyType = "id"
	TypeName                StrategyType = "name"
	TypePlaceholder         StrategyType = "placeholder"
	TypePlaceholderContains StrategyType = "placeholder_contains"
	TypeAriaLabel           StrategyType = "aria_label"
	TypeRoleName            StrategyType = "role_name"
	TypeTextExact           StrategyType = "text_exact"
	TypeTextContains        StrategyType = "text_contains"
	TypeClassName           StrategyType = "class_name"
	TypeRawCSS              StrategyType = "raw_css"
	TypeXPath               StrategyType = "xpath"
)

// QueryKind says how a browser evaluates Strategy.Expression.
type QueryKind int

// Query kinds.
const (
	QueryCSS QueryKind = iota
	QueryXPath
)

// String returns "css" or "xpath".
func (q QueryKind) String() string {
	if q == QueryXPath {
		return "xpath"
	}
	return "css"
}

// Strategy is one candidate way to find an element.
type Strategy struct {
	// Type is the strategy discriminator.
	Type StrategyType `json:"type"`
	// Expression is the CSS selector or XPath handed to the browser.
	Expression string `json:"expression"`
	// Priority orders candidates; lower is tried first.
	Priority int `json:"priority"`
	// Stable is true for attribute-based strategies that survive UI rebuilds.
	Stable bool `json:"stable"`
	// Role is the accessibility role for TypeRoleName.
	Role string `json:"role,omitempty"`
	// Value is the attribute value or text the expression was built from.
	Value string `json:"value,omitempty"`
}

// Query returns how Expression must be evaluated.
func (s Strategy) Query() QueryKind {
	switch s.Type {
	case TypeXPath, TypeRoleName, TypeTextExact, TypeTextContains:
		return QueryXPath
	case TypeTestID, TypeID, TypeName, TypePlaceholder, TypePlaceholderContains,
		TypeAriaLabel, TypeClassName, TypeRawCSS:
		return QueryCSS
	}
	return QueryCSS
}

// PlaywrightSelector renders the strategy in the selector syntax of the
// generated test project. It is only used when emitting source.
func (s Strategy) PlaywrightSelector() string {
	switch s.Type {
	case TypeRoleName:
		return "role=" + s.Role + "[name=" + cssString(s.Value) + "]"
	case TypeTextExact:
		return "text=" + cssString(s.Value)
	case TypeTextContains:
		return "text=" + s.Value
	case TypeXPath:
		return "xpath=" + s.Expression
	case TypeTestID, TypeID, TypeName, TypePlaceholder, TypePlaceholderContains,
		TypeAriaLabel, TypeClassName, TypeRawCSS:
		return s.Expression
	}
	return s.Expression
}

// String is used in diagnostics.
func (s Strategy) String() string {
	return string(s.Type) + " " + s.Expression
}

// CacheKey identifies an ordered candidate list. Order matters: the same
// strategies in a different order are a different key.
func CacheKey(candidates []Strategy) string {
	var b strings.Builder
	for i, c := range candidates {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(c.Expression)
	}
	return b.String()
}

// cssString quotes v as a CSS string literal.
func cssString(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(v) + `"`
}

// xpathLiteral quotes v as an XPath 1.0 string literal. XPath has no escape
// syntax, so values holding both quote kinds are built with concat().
func xpathLiteral(v string) string {
	if !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	if !strings.Contains(v, `"`) {
		return `"` + v + `"`
	}
	parts := strings.Split(v, "'")
	args := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `"'"`)
		}
		if p != "" {
			args = append(args, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}
