// Package testutil provides test doubles shared across recforge test files.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockNavigation simulates a page load failure.
	ErrMockNavigation = errors.New("navigation failed")

	// ErrMockClick simulates an element that rejects interaction.
	ErrMockClick = errors.New("element detached")

	// ErrMockLaunch simulates a browser that cannot be started.
	ErrMockLaunch = errors.New("chromium not found")
)
