package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

// errorEntry pairs a sentinel error with its user-facing info.
type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// A slice, not a map, because wrapped errors need errors.Is() traversal.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Recording
	// ===================
	{
		err: ErrEmptyRecording,
		info: ErrorInfo{
			Message: "The recording is empty.",
			Action:  "Record at least one interaction (navigate, click, fill...) and retry.",
		},
	},
	{
		err: ErrRecordingRead,
		info: ErrorInfo{
			Message: "The recording file could not be read.",
			Action:  "Check that the path exists and is readable.",
		},
	},

	// ===================
	// Generation
	// ===================
	{
		err: ErrInvalidFeatureName,
		info: ErrorInfo{
			Message: "A feature name is required to name the generated classes.",
			Action:  "Pass --feature or run interactively to be prompted.",
		},
	},
	{
		err: ErrGeneration,
		info: ErrorInfo{
			Message: "The artifacts could not be generated. No files were left behind.",
			Action:  "Check that the pages, features and steps directories exist and are writable.",
		},
	},
	{
		err: ErrTemplateExecution,
		info: ErrorInfo{
			Message: "An artifact template failed to render.",
			Action:  "Run with --verbose and report the failing template.",
		},
	},

	// ===================
	// Resolution
	// ===================
	{
		err: ErrLocatorNotFound,
		info: ErrorInfo{
			Message: "No locator strategy matched a visible element.",
			Action:  "Review the attempted strategies listed above; the page markup may have changed.",
		},
	},
	{
		err: ErrNoCandidates,
		info: ErrorInfo{
			Message: "There were no locator strategies to try.",
		},
	},
	{
		err: ErrUnsupportedAction,
		info: ErrorInfo{
			Message: "The recording contains an action the runtime cannot perform.",
		},
	},
	{
		err: ErrBrowserUnavailable,
		info: ErrorInfo{
			Message: "The browser could not be started or reached.",
			Action:  "Install Chrome/Chromium or set browser.bin in the config.",
		},
	},

	// ===================
	// Configuration
	// ===================
	{
		err: ErrConfigNil,
		info: ErrorInfo{
			Message: "No configuration was loaded.",
		},
	},
	{
		err: ErrConfigInvalidOutput,
		info: ErrorInfo{
			Message: "The output section of the configuration is invalid.",
			Action:  "Run 'recforge config show' and fix the output directories.",
		},
	},
	{
		err: ErrConfigInvalidResolver,
		info: ErrorInfo{
			Message: "The resolver section of the configuration is invalid.",
			Action:  "Use a positive probe_timeout and cache_size.",
		},
	},
	{
		err: ErrConfigInvalidBrowser,
		info: ErrorInfo{
			Message: "The browser section of the configuration is invalid.",
			Action:  "Use an absolute http(s) base_url and a positive navigation_timeout.",
		},
	},
	{
		err: ErrConfigInvalidGenerate,
		info: ErrorInfo{
			Message: "The generate section of the configuration is invalid.",
			Action:  "Use a concurrency between 1 and 32.",
		},
	},

	// ===================
	// CLI
	// ===================
	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unknown output format.",
			Action:  "Use --output text or --output json.",
		},
	},
	{
		err: ErrInvalidArgument,
		info: ErrorInfo{
			Message: "An invalid argument was provided.",
			Action:  "Check the command help for valid arguments.",
		},
	},
	{
		err: ErrConflictingFlags,
		info: ErrorInfo{
			Message: "The specified flags cannot be used together.",
			Action:  "Check the command help for valid flag combinations.",
		},
	},
	{
		err: ErrInteractiveRequired,
		info: ErrorInfo{
			Message: "This command needs input that can only be prompted on a terminal.",
			Action:  "Pass the missing value as a flag.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// Direct sentinel matches hit the map; wrapped errors fall back to errors.Is().
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}

	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}

	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take. The action is empty when there is nothing to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
