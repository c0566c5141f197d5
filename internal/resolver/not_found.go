package resolver

import (
	"fmt"
	"strings"
	"time"

	rferrors "github.com/mrz1836/recforge/internal/errors"
	"github.com/mrz1836/recforge/internal/locator"
)

// Reason explains why a candidate did not resolve.
type Reason string

// Attempt failure reasons.
const (
	ReasonNotFound   Reason = "not found"
	ReasonNotVisible Reason = "found but not visible"
	ReasonTimedOut   Reason = "timed out"
	ReasonError      Reason = "error"
)

// Attempt records one failed candidate.
type Attempt struct {
	Strategy locator.Strategy
	Reason   Reason
	Err      error
}

// NotFoundError is returned when every candidate failed. It lists each
// attempt so a markup change can be diagnosed from the message alone.
type NotFoundError struct {
	Attempts []Attempt
	Elapsed  time.Duration
}

// Error implements error.
func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d strategies tried in %s", rferrors.ErrLocatorNotFound, len(e.Attempts), e.Elapsed)
	for i, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %d. %s (%s", i+1, a.Strategy, a.Reason)
		if a.Reason == ReasonError && a.Err != nil {
			fmt.Fprintf(&b, ": %v", a.Err)
		}
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap makes errors.Is(err, rferrors.ErrLocatorNotFound) hold.
func (e *NotFoundError) Unwrap() error {
	return rferrors.ErrLocatorNotFound
}
