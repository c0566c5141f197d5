package browser

import (
	"context"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	rferrors "github.com/mrz1836/recforge/internal/errors"
)

// Element is a rod element handle.
type Element struct {
	el *rod.Element
}

// Click left-clicks the element once.
func (e *Element) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

// Fill replaces the element's text with value.
func (e *Element) Fill(ctx context.Context, value string) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}

// SelectOption selects the option whose value or label is value.
func (e *Element) SelectOption(ctx context.Context, value string) error {
	el := e.el.Context(ctx)
	byValue := `option[value="` + strings.ReplaceAll(value, `"`, `\"`) + `"]`
	if err := el.Select([]string{byValue}, true, rod.SelectorTypeCSSSector); err == nil {
		return nil
	}
	return el.Select([]string{value}, true, rod.SelectorTypeText)
}

// Check ticks a checkbox unless it is already checked.
func (e *Element) Check(ctx context.Context) error {
	el := e.el.Context(ctx)
	checked, err := el.Property("checked")
	if err != nil {
		return err
	}
	if checked.Bool() {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// Press focuses the element and presses key.
func (e *Element) Press(ctx context.Context, key string) error {
	k, ok := MapKey(key)
	if !ok {
		return rferrors.Wrapf(rferrors.ErrInvalidArgument, "unknown key %q", key)
	}
	return e.el.Context(ctx).Type(k)
}

// MapKey translates a recorded key name into a rod key.
func MapKey(key string) (input.Key, bool) {
	switch strings.ToLower(key) {
	case "enter", "return":
		return input.Enter, true
	case "tab":
		return input.Tab, true
	case "escape", "esc":
		return input.Escape, true
	case "backspace":
		return input.Backspace, true
	case "delete":
		return input.Delete, true
	case "arrowup", "up":
		return input.ArrowUp, true
	case "arrowdown", "down":
		return input.ArrowDown, true
	case "arrowleft", "left":
		return input.ArrowLeft, true
	case "arrowright", "right":
		return input.ArrowRight, true
	case "home":
		return input.Home, true
	case "end":
		return input.End, true
	case "pageup":
		return input.PageUp, true
	case "pagedown":
		return input.PageDown, true
	case "space", " ":
		return input.Space, true
	}
	if len(key) == 1 && key[0] < 0x80 {
		return input.Key(key[0]), true
	}
	return 0, false
}
