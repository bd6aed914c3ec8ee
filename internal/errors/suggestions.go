package errors

import "errors"

// Suggestions maps common errors to helpful suggestions.
var Suggestions = map[error]string{
	// User input errors
	ErrInvalidTime:        "Valid examples: 8, 8h, 8h00, 08:00.",
	ErrInvalidDay:         "Use a weekday from segunda to sábado (or monday to saturday).",
	ErrInvalidDate:        "Try formats like 'today', 'yesterday' or '2024-03-05'.",
	ErrNameRequired:       "Provide a non-empty name.",
	ErrEntryNotFound:      "Use 'studiodesk schedule' to see entry ids.",
	ErrAssessmentNotFound: "Use 'studiodesk assessment list' to see assessment ids.",
	ErrUnsupportedPhoto:   "Photos must be .png, .jpg or .jpeg files.",
	ErrNothingToUndo:      "Only the last removal can be undone.",
	ErrAccessDenied:       "Pass the access key with --key or STUDIODESK_KEY.",

	// System errors
	ErrDiskFull:          "Free up disk space and try again.",
	ErrDatabaseCorrupted: "Remove the state/ directory inside the data dir; it only holds caches and undo history.",
	ErrMirrorUnavailable: "Local data is saved. The mirror will be updated on the next save.",
	ErrLockHeld:          "Another studiodesk command is running against the same data directory.",
	ErrTimeout:           "The operation took too long. Try again or check your network connection.",
	ErrPermissionDenied:  "Check file permissions in your data directory.",
}

// GetSuggestion returns a suggestion for an error, if available.
// It walks the error chain to find matching suggestions.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// A UserError carries its own, more specific suggestion
	if ue, ok := AsUserError(err); ok && ue.Suggestion != "" {
		return ue.Suggestion
	}

	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}

	return ""
}

// CommandExamples provides example commands for common errors.
var CommandExamples = map[error][]string{
	ErrInvalidTime: {
		"studiodesk schedule add segunda 8h30 \"Ana\" \"Fernanda\"",
		"studiodesk schedule add terça 14:00 \"Rui\" \"Fernanda\" --duration 60",
	},
	ErrInvalidDate: {
		"studiodesk assessment add \"Ana Souza\" --date today",
		"studiodesk assessment add \"Ana Souza\" --date 2024-03-05",
	},
}

// GetExamples returns example commands for an error.
func GetExamples(err error) []string {
	for knownErr, examples := range CommandExamples {
		if errors.Is(err, knownErr) {
			return examples
		}
	}
	return nil
}
