// Package recording turns a raw, line-oriented recording of browser interactions
// into an ordered sequence of structured actions.
//
// The parser output is a faithful, unescaped mirror of the recorded literals:
// escaping for generated source happens only at emission time.
package recording

import (
	"fmt"
	"strconv"
)

// Kind identifies the user-observable interaction an Action represents.
type Kind string

// Supported action kinds, in parser precedence order.
const (
	KindNavigate Kind = "navigate"
	KindClick    Kind = "click"
	KindFill     Kind = "fill"
	KindSelect   Kind = "select"
	KindCheck    Kind = "check"
	KindPressKey Kind = "press"
)

// Kinds returns every kind in parser precedence order.
func Kinds() []Kind {
	return []Kind{KindNavigate, KindClick, KindFill, KindSelect, KindCheck, KindPressKey}
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// TakesValue reports whether actions of this kind carry a value argument.
func (k Kind) TakesValue() bool {
	switch k {
	case KindNavigate, KindFill, KindSelect, KindPressKey:
		return true
	case KindClick, KindCheck:
		return false
	}
	return false
}

// methodPrefix is the page-object method stem per kind; the sequence id is appended.
func (k Kind) methodPrefix() string {
	switch k {
	case KindClick:
		return "clickElement"
	case KindFill:
		return "fillElement"
	case KindSelect:
		return "selectElement"
	case KindCheck:
		return "checkElement"
	case KindPressKey:
		return "pressKeyElement"
	case KindNavigate:
		return ""
	}
	return ""
}

// NavigateMethodName is the page-object method every navigation binds to.
const NavigateMethodName = "navigateTo"

// NavigateStepText is the fixed opening step of every generated scenario.
const NavigateStepText = "user navigates to the page"

// Action is one interaction extracted from a recording. It is created once per
// matched line and never mutated afterwards.
type Action struct {
	// SequenceID is 1-based and counts matched lines only.
	SequenceID int `json:"sequence_id"`
	// Kind is the interaction type.
	Kind Kind `json:"kind"`
	// Selector is the raw locator text as recorded; nil for navigations.
	Selector *string `json:"selector,omitempty"`
	// Value is the URL, typed text, selected option or key name; nil when the
	// kind takes no value.
	Value *string `json:"value,omitempty"`
	// Line is the 1-based line in the recording the action came from.
	Line int `json:"line"`
}

// HasSelector reports whether the action targets an element.
func (a Action) HasSelector() bool {
	return a.Selector != nil
}

// SelectorText returns the recorded selector or "" for navigations.
func (a Action) SelectorText() string {
	if a.Selector == nil {
		return ""
	}
	return *a.Selector
}

// ValueText returns the recorded value or "".
func (a Action) ValueText() string {
	if a.Value == nil {
		return ""
	}
	return *a.Value
}

// MethodName is the page-object method generated for this action, derived from
// kind and sequence id only (Click #3 -> clickElement3).
func (a Action) MethodName() string {
	if a.Kind == KindNavigate {
		return NavigateMethodName
	}
	return a.Kind.methodPrefix() + strconv.Itoa(a.SequenceID)
}

// StepText is the Cucumber expression bound to this action
// (Click #3 -> "user clicks on element 3"). Value-carrying kinds take a {string}
// parameter that the feature file fills with the recorded value.
func (a Action) StepText() string {
	switch a.Kind {
	case KindClick:
		return fmt.Sprintf("user clicks on element %d", a.SequenceID)
	case KindFill:
		return fmt.Sprintf("user enters {string} into element %d", a.SequenceID)
	case KindSelect:
		return fmt.Sprintf("user selects {string} from element %d", a.SequenceID)
	case KindCheck:
		return fmt.Sprintf("user checks element %d", a.SequenceID)
	case KindPressKey:
		return fmt.Sprintf("user presses {string} on element %d", a.SequenceID)
	case KindNavigate:
		return NavigateStepText
	}
	return ""
}

func strPtr(s string) *string {
	return &s
}
