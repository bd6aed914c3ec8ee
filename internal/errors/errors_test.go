package errors

import (
	"encoding/csv"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// UserError Tests
// =============================================================================

func TestNewUserError(t *testing.T) {
	err := NewUserError("invalid input", "try again")
	assert.NotNil(t, err)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "try again", err.Suggestion)
}

func TestUserErrorError(t *testing.T) {
	t.Run("without_field", func(t *testing.T) {
		err := NewUserError("invalid input", "")
		assert.Equal(t, "invalid input", err.Error())
	})

	t.Run("with_field", func(t *testing.T) {
		err := NewUserErrorWithField("time", "abc", "invalid time", "")
		assert.Equal(t, "invalid time: 'abc'", err.Error())
	})
}

func TestUserErrorWithCause(t *testing.T) {
	err := NewUserErrorWithField("time", "abc", "invalid time", "").WithCause(ErrInvalidTime)
	wrapped := fmt.Errorf("book: %w", err)

	assert.True(t, errors.Is(wrapped, ErrInvalidTime))
	assert.True(t, IsUserError(wrapped))
	assert.False(t, errors.Is(wrapped, ErrInvalidDay))
}

func TestIsUserError(t *testing.T) {
	t.Run("user_error", func(t *testing.T) {
		assert.True(t, IsUserError(NewUserError("test", "")))
	})

	t.Run("wrapped_user_error", func(t *testing.T) {
		wrapped := fmt.Errorf("context: %w", NewUserError("test", ""))
		assert.True(t, IsUserError(wrapped))
	})

	t.Run("not_user_error", func(t *testing.T) {
		assert.False(t, IsUserError(errors.New("plain error")))
	})

	t.Run("nil_error", func(t *testing.T) {
		assert.False(t, IsUserError(nil))
	})
}

// =============================================================================
// SystemError / RecoverableError Tests
// =============================================================================

func TestSystemError(t *testing.T) {
	cause := errors.New("write failed")
	err := NewSystemErrorWithOp("save agenda", "disk full", cause)

	assert.Equal(t, "disk full during save agenda", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsSystemError(err))

	se, ok := AsSystemError(fmt.Errorf("wrap: %w", err))
	require.True(t, ok)
	assert.Equal(t, "save agenda", se.Op)
}

func TestRecoverableError(t *testing.T) {
	err := NewRecoverableError("mirror push failed", ErrMirrorUnavailable, 2)
	assert.True(t, err.CanRetry)
	assert.Equal(t, "mirror push failed", err.Error())

	err.IncrementRetry()
	assert.True(t, err.CanRetry)
	assert.Equal(t, "mirror push failed (attempt 1/2)", err.Error())

	err.IncrementRetry()
	assert.False(t, err.CanRetry)
	assert.ErrorIs(t, err, ErrMirrorUnavailable)
}

// =============================================================================
// Wrap / Chain Tests
// =============================================================================

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ctx"))
	assert.Nil(t, Wrapf(nil, "ctx %d", 1))

	err := Wrapf(ErrEntryNotFound, "remove %d", 7)
	assert.Equal(t, "remove 7: schedule entry not found", err.Error())
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestJoin(t *testing.T) {
	assert.Nil(t, Join(nil, nil))

	err := Join(nil, ErrLockHeld, ErrDiskFull)
	assert.ErrorIs(t, err, ErrLockHeld)
	assert.ErrorIs(t, err, ErrDiskFull)
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, CategoryUnknown},
		{"user", NewUserError("bad", ""), CategoryUser},
		{"system", NewSystemError("bad", nil), CategorySystem},
		{"recoverable", NewRecoverableError("bad", nil, 1), CategoryRecoverable},
		{"disk_full_sentinel", ErrDiskFull, CategorySystem},
		{"enospc", syscall.ENOSPC, CategorySystem},
		{"mirror_unavailable", ErrMirrorUnavailable, CategoryRecoverable},
		{"lock_held", ErrLockHeld, CategoryRecoverable},
		{"bare_not_found", Wrap(ErrEntryNotFound, "remove"), CategoryUser},
		{"csv_damaged", &csv.ParseError{Line: 3, Err: csv.ErrQuote}, CategorySystem},
		{"plain", errors.New("boom"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWithCategoryOverrides(t *testing.T) {
	err := WithCategory(errors.New("boom"), CategoryInternal)
	assert.Equal(t, CategoryInternal, GetCategory(err))
	assert.Equal(t, "internal", GetCategory(err).String())
}

// =============================================================================
// Suggestion Tests
// =============================================================================

func TestGetSuggestion(t *testing.T) {
	t.Run("sentinel", func(t *testing.T) {
		assert.Contains(t, GetSuggestion(ErrInvalidTime), "8h00")
	})

	t.Run("user_error_suggestion_wins", func(t *testing.T) {
		err := NewUserError("bad", "do this").WithCause(ErrInvalidTime)
		assert.Equal(t, "do this", GetSuggestion(err))
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Empty(t, GetSuggestion(errors.New("x")))
		assert.Empty(t, GetSuggestion(nil))
	})
}

func TestGetExamples(t *testing.T) {
	examples := GetExamples(fmt.Errorf("x: %w", ErrInvalidTime))
	require.NotEmpty(t, examples)
	assert.Contains(t, examples[0], "studiodesk schedule add")
	assert.Nil(t, GetExamples(ErrDiskFull))
}

func TestFormatByCategory(t *testing.T) {
	assert.Equal(t, "bad\n\nTry: fix it", FormatByCategory(NewUserError("bad", "fix it")))
	assert.Contains(t, FormatByCategory(ErrDiskFull), "System error: disk full")
	assert.Equal(t, "data directory locked by another process\n\n"+Suggestions[ErrLockHeld],
		FormatByCategory(ErrLockHeld))
	assert.Equal(t, "boom", FormatByCategory(errors.New("boom")))
	assert.Equal(t, "", FormatByCategory(nil))
}
