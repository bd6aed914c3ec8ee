package runtime

import (
	"strings"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/output"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitUsage  = 2
	ExitDenied = 3
)

// FormatError formats an error for the terminal with its suggestion and,
// for input errors, example commands.
func FormatError(err error) string {
	msg := errors.FormatByCategory(err)
	if examples := errors.GetExamples(err); len(examples) > 0 {
		msg += "\n\nExamples:\n  " + strings.Join(examples, "\n  ")
	}
	return msg
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errors.ErrAccessDenied):
		return ExitDenied
	case errors.IsUserError(err):
		return ExitUsage
	default:
		return ExitError
	}
}

// PrintError reports err on the formatter when it is JSON, or returns
// the terminal text otherwise.
func PrintError(f *output.Formatter, err error) string {
	if f != nil && f.Format == output.FormatJSON {
		_ = output.NewJSONFormatter(f).PrintError("error", err.Error(),
			errors.GetCategory(err).String(), errors.GetSuggestion(err))
		return ""
	}
	return FormatError(err)
}
