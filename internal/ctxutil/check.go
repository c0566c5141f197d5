// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled reports whether ctx has been canceled or exceeded its deadline.
// Returns the context error if done, nil otherwise. Used at the entry of
// file-system operations (recording reads, artifact writes) that should not
// start once the caller has given up.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
