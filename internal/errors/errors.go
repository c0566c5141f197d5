// Package errors provides centralized error handling for recforge.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrEmptyRecording indicates that the recording contained no text at all.
	ErrEmptyRecording = errors.New("recording is empty")

	// ErrRecordingRead indicates that the recording file could not be read.
	ErrRecordingRead = errors.New("recording could not be read")

	// ErrInvalidFeatureName indicates that the feature name is empty.
	ErrInvalidFeatureName = errors.New("invalid feature name")

	// ErrGeneration indicates that an artifact set could not be produced or persisted.
	// No partial artifact set is left on disk when this error is returned.
	ErrGeneration = errors.New("artifact generation failed")

	// ErrTemplateExecution indicates that an artifact template failed to render.
	ErrTemplateExecution = errors.New("template execution failed")

	// ErrLocatorNotFound indicates that every candidate strategy failed to resolve.
	ErrLocatorNotFound = errors.New("locator not found")

	// ErrNoCandidates indicates that resolution was attempted with an empty candidate list.
	ErrNoCandidates = errors.New("no locator candidates")

	// ErrUnsupportedAction indicates an action kind that the runtime cannot perform.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrBrowserUnavailable indicates that the browser collaborator could not be started
	// or is not connected.
	ErrBrowserUnavailable = errors.New("browser unavailable")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidOutput indicates an invalid output layout configuration value.
	ErrConfigInvalidOutput = errors.New("invalid output configuration")

	// ErrConfigInvalidResolver indicates an invalid resolver configuration value.
	ErrConfigInvalidResolver = errors.New("invalid resolver configuration")

	// ErrConfigInvalidBrowser indicates an invalid browser configuration value.
	ErrConfigInvalidBrowser = errors.New("invalid browser configuration")

	// ErrConfigInvalidGenerate indicates an invalid generate configuration value.
	ErrConfigInvalidGenerate = errors.New("invalid generate configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflictingFlags indicates that mutually exclusive flags were specified.
	ErrConflictingFlags = errors.New("conflicting flags specified")

	// ErrInteractiveRequired indicates that interactive prompts are required but not available.
	ErrInteractiveRequired = errors.New("interactive prompt required")

	// ErrMenuCanceled indicates that the user canceled a prompt.
	ErrMenuCanceled = errors.New("prompt canceled by user")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// Commands should silence cobra's error printing when this is returned.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
