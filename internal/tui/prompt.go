package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	rferrors "github.com/mrz1836/recforge/internal/errors"
)

// IsInteractive reports whether stdin is a terminal a prompt can read from.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Theme returns a huh theme using the recforge colors.
func Theme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorPrimary)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	return t
}

// InputWithValidation prompts for a single line of text.
//
// Returns ErrInteractiveRequired when stdin is not a terminal and
// ErrMenuCanceled when the user aborts.
func InputWithValidation(title, description, defaultValue string, validate func(string) error) (string, error) {
	if !IsInteractive() {
		return "", rferrors.ErrInteractiveRequired
	}

	value := defaultValue
	field := huh.NewInput().
		Title(title).
		Description(description).
		Value(&value).
		Validate(validate)

	form := huh.NewForm(huh.NewGroup(field)).WithTheme(Theme())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", rferrors.ErrMenuCanceled
		}
		return "", fmt.Errorf("input prompt failed: %w", err)
	}
	return value, nil
}
