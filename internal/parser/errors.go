package parser

import (
	"fmt"
	"strings"

	"github.com/manav03panchal/studiodesk/internal/errors"
)

// TimeParseError represents a time or date parsing error with helpful suggestions.
type TimeParseError struct {
	Input      string
	Field      string
	Message    string
	Examples   []string
	Suggestion string
	sentinel   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// Unwrap lets callers match ErrInvalidTime / ErrInvalidDate with errors.Is.
func (e *TimeParseError) Unwrap() error {
	return e.sentinel
}

// FormatWithExamples returns the error message with example suggestions.
func (e *TimeParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

// ClockExamples lists accepted time-of-day spellings.
var ClockExamples = []string{
	"8",
	"8h",
	"8h00",
	"08:00",
	"14h30",
}

// DateExamples lists accepted assessment date spellings.
var DateExamples = []string{
	"today",
	"yesterday",
	"2024-03-05",
	"05/03/2024",
	"3 days ago",
}

// NewClockError creates a time-of-day parse error with standard examples.
func NewClockError(input, message string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "time",
		Message:    message,
		Examples:   ClockExamples,
		Suggestion: "Write the hour, optionally followed by 'h' or ':' and the minutes.",
		sentinel:   errors.ErrInvalidTime,
	}
}

// NewDateError creates a date parse error with standard examples.
func NewDateError(input string) *TimeParseError {
	return &TimeParseError{
		Input:      input,
		Field:      "date",
		Message:    "could not parse date",
		Examples:   DateExamples,
		Suggestion: "Use an ISO date like 2024-03-05 or a phrase like 'yesterday'.",
		sentinel:   errors.ErrInvalidDate,
	}
}
