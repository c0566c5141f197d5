package locator

import (
	"fmt"
	"strings"

	"github.com/mrz1836/recforge/internal/recording"
)

// Attribute keys understood by the catalog.
const (
	AttrID           = "id"
	AttrName         = "name"
	AttrTestID       = "data-testid"
	AttrPlaceholder  = "placeholder"
	AttrAriaLabel    = "aria-label"
	AttrText         = "text"
	AttrClass        = "class"
	AttrType         = "type"
	AttrAutocomplete = "autocomplete"
	AttrRole         = "role"
	AttrTag          = "tag"
	// AttrSelector holds the recorded CSS selector as-is.
	AttrSelector = "selector"
	// AttrXPath holds a recorded XPath selector.
	AttrXPath = "xpath"
)

// Attributes are the observed attributes of an element. Missing keys and empty
// values are equivalent.
type Attributes map[string]string

// Get returns the trimmed value for key.
func (a Attributes) Get(key string) string {
	return strings.TrimSpace(a[key])
}

// ElementKind selects kind-specific templates in the catalog.
type ElementKind string

// Element kinds.
const (
	KindInput  ElementKind = "input"
	KindButton ElementKind = "button"
	KindLink   ElementKind = "link"
)

// Role is the accessibility role matched for the kind.
func (k ElementKind) Role() string {
	switch k {
	case KindInput:
		return "textbox"
	case KindLink:
		return "link"
	case KindButton:
		return "button"
	}
	return "button"
}

// ElementKindFor infers the element kind from the recorded action and what is
// known about its target.
func ElementKindFor(kind recording.Kind, attrs Attributes) ElementKind {
	switch kind {
	case recording.KindFill, recording.KindSelect, recording.KindPressKey, recording.KindCheck:
		return KindInput
	case recording.KindClick, recording.KindNavigate:
	}

	tag := strings.ToLower(attrs.Get(AttrTag))
	role := strings.ToLower(attrs.Get(AttrRole))
	switch {
	case role == "link" || tag == "a":
		return KindLink
	case role == "textbox" || tag == "textarea":
		return KindInput
	case tag == "input":
		switch strings.ToLower(attrs.Get(AttrType)) {
		case "submit", "button", "reset", "image":
			return KindButton
		}
		return KindInput
	}
	return KindButton
}

// ElementName picks a human-meaningful name for an element, falling back to
// "element<seq>" when nothing descriptive was observed.
func ElementName(attrs Attributes, seq int) string {
	for _, key := range []string{AttrTestID, AttrID, AttrName, AttrAriaLabel, AttrPlaceholder, AttrText} {
		if v := attrs.Get(key); v != "" {
			return v
		}
	}
	return fmt.Sprintf("element%d", seq)
}

// ForAction returns the candidate list for the element a recorded action
// targets, or nil for actions without a selector. Generation and replay both
// use it, so both see the same list and the same cache key.
func ForAction(a recording.Action) []Strategy {
	if !a.HasSelector() {
		return nil
	}
	attrs := AttributesFromSelector(a.SelectorText())
	return CandidatesFor(ElementName(attrs, a.SequenceID), ElementKindFor(a.Kind, attrs), attrs)
}
