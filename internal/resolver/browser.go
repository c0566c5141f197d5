// Package resolver finds a working locator among ordered candidate strategies,
// remembering which strategy won so later lookups take a single probe.
package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/mrz1836/recforge/internal/locator"
)

// Errors returned by Browser.WaitVisible.
var (
	// ErrWaitTimeout means the visibility wait ran out before anything was decided.
	ErrWaitTimeout = errors.New("wait timed out")
	// ErrNotVisible means matches exist but none became visible within the wait.
	ErrNotVisible = errors.New("element not visible")
)

// Browser is the automation engine the resolver drives. Implementations must
// be safe for concurrent use.
type Browser interface {
	// Count returns the number of elements matching s without waiting.
	Count(ctx context.Context, s locator.Strategy) (int, error)
	// Visible returns the first visible match without waiting.
	Visible(ctx context.Context, s locator.Strategy) (Element, bool, error)
	// WaitVisible waits up to timeout for a match to become visible.
	WaitVisible(ctx context.Context, s locator.Strategy, timeout time.Duration) (Element, error)
}

// Element is a resolved element handle.
type Element interface {
	Click(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	SelectOption(ctx context.Context, value string) error
	Check(ctx context.Context) error
	Press(ctx context.Context, key string) error
}
