// Package logging provides zerolog utilities for recforge, chiefly keeping
// recorded credentials out of log output. Recordings routinely capture what a
// user typed into login forms; those values must never reach a log file.
package logging

import (
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns detect credential-looking content inside free text.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// Generic API keys (api_key=..., apikey: ...)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),

	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_-]{20,}`),

	// Authorization headers with tokens
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[a-zA-Z0-9_-]{20,}["']?`),

	// Secret assignments (password=..., secret: ...)
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// Long token-ish values
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=]{32,}["']?`),
}

// sensitiveFieldHints are substrings of field names or selectors whose values are
// always redacted. Matching is case-insensitive.
var sensitiveFieldHints = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"password",
	"passwd",
	"pwd",
	"secret",
	"token",
	"api_key",
	"apikey",
	"api-key",
	"credential",
	"otp",
	"pin",
	"cvv",
	"card-number",
	"cardnumber",
}

// SensitiveDataHook is a zerolog hook that flags events whose message looks like
// it carries a credential. zerolog does not allow rewriting the message in a hook,
// so call sites use SafeActionValue and the file writer uses FilteringWriter.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData checks if a string contains any sensitive data pattern.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces every sensitive pattern match in value with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveTarget reports whether a field name or selector suggests that the
// value typed into it is a credential.
func IsSensitiveTarget(target string) bool {
	lower := strings.ToLower(target)
	for _, hint := range sensitiveFieldHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// SafeActionValue returns the value to log for an action performed on target.
// Values typed into credential-looking targets are fully redacted; anything else
// is pattern-filtered.
//
//	logger.Debug().Str("value", logging.SafeActionValue(selector, value)).Msg("fill")
func SafeActionValue(target, value string) string {
	if value == "" {
		return value
	}
	if IsSensitiveTarget(target) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// FilteringWriter wraps an io.Writer and filters sensitive data from output.
// Used in front of the rotating log file so credentials never land on disk.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer, filtering sensitive data before writing.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	if _, err = fw.w.Write([]byte(filtered)); err != nil {
		return 0, err
	}
	// Report the original length so callers don't see a short write.
	return len(p), nil
}
