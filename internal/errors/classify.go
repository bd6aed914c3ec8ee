package errors

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, wrong key).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, unreadable data dir).
	CategorySystem
	// CategoryRecoverable indicates the same command may succeed later.
	CategoryRecoverable
	// CategoryInternal indicates an internal bug or unexpected state.
	CategoryInternal
)

var categoryNames = map[Category]string{
	CategoryUser:        "user",
	CategorySystem:      "system",
	CategoryRecoverable: "recoverable",
	CategoryInternal:    "internal",
}

// String returns the string representation of the category.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// sentinelCategories classifies bare sentinels that reach the CLI without
// a typed wrapper.
var sentinelCategories = []struct {
	err      error
	category Category
}{
	{ErrAccessDenied, CategoryUser},
	{ErrNothingToUndo, CategoryUser},
	{ErrEntryNotFound, CategoryUser},
	{ErrAssessmentNotFound, CategoryUser},
	{ErrPhotoNotFound, CategoryUser},
	{ErrDiskFull, CategorySystem},
	{ErrDatabaseCorrupted, CategorySystem},
	{ErrPermissionDenied, CategorySystem},
	{ErrMirrorUnavailable, CategoryRecoverable},
	{ErrMirrorConflict, CategoryRecoverable},
	{ErrTimeout, CategoryRecoverable},
	{ErrLockHeld, CategoryRecoverable},
}

// errnoCategories classifies raw syscall errors from the data directory
// and the mirror connection.
var errnoCategories = map[syscall.Errno]Category{
	syscall.ENOSPC:       CategorySystem,
	syscall.EACCES:       CategorySystem,
	syscall.EPERM:        CategorySystem,
	syscall.ENOENT:       CategorySystem,
	syscall.EIO:          CategorySystem,
	syscall.EROFS:        CategorySystem,
	syscall.EAGAIN:       CategoryRecoverable,
	syscall.EINTR:        CategoryRecoverable,
	syscall.ETIMEDOUT:    CategoryRecoverable,
	syscall.ECONNREFUSED: CategoryRecoverable,
	syscall.ECONNRESET:   CategoryRecoverable,
}

// Classify determines the category of an error. Typed errors win over
// sentinels, sentinels over syscall codes.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	switch {
	case IsUserError(err):
		return CategoryUser
	case IsSystemError(err):
		return CategorySystem
	case IsRecoverableError(err):
		return CategoryRecoverable
	}

	for _, s := range sentinelCategories {
		if errors.Is(err, s.err) {
			return s.category
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if c, ok := errnoCategories[errno]; ok {
			return c
		}
	}

	// A CSV file the table reader cannot tokenize is damaged on disk
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) || errors.Is(err, fs.ErrPermission) {
		return CategorySystem
	}

	return CategoryUnknown
}

// ClassifiedError wraps an error with its classification.
type ClassifiedError struct {
	Err      error
	Category Category
}

func (e *ClassifiedError) Error() string {
	return e.Err.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Err
}

// WithCategory wraps an error with an explicit category.
func WithCategory(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{Err: err, Category: category}
}

// GetCategory returns the category set with WithCategory, or Classify's.
func GetCategory(err error) Category {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category
	}
	return Classify(err)
}

// FormatByCategory returns a user-appropriate error message based on category.
func FormatByCategory(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	suggestion := GetSuggestion(err)

	switch GetCategory(err) {
	case CategoryUser:
		if suggestion != "" {
			return msg + "\n\nTry: " + suggestion
		}
	case CategorySystem:
		msg = "System error: " + msg
		if suggestion != "" {
			return msg + "\n\n" + suggestion
		}
	case CategoryRecoverable:
		if suggestion != "" {
			return msg + "\n\n" + suggestion
		}
	}
	return msg
}
