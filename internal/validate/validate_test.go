package validate

import (
	"strings"
	"testing"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slot struct {
	Day      string `validate:"required,weekday" label:"day"`
	Client   string `validate:"notblank" label:"client"`
	Duration int    `validate:"min=10,max=180,step5" label:"duration"`
}

// =============================================================================
// Struct Tests
// =============================================================================

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        slot
		wantField string
		wantIs    error
	}{
		{"valid", slot{Day: "segunda", Client: "Ana", Duration: 45}, "", nil},
		{"english_day", slot{Day: "Friday", Client: "Ana", Duration: 10}, "", nil},
		{"missing_day", slot{Client: "Ana", Duration: 45}, "", errors.ErrInvalidDay},
		{"sunday", slot{Day: "domingo", Client: "Ana", Duration: 45}, "day", errors.ErrInvalidDay},
		{"blank_client", slot{Day: "sexta", Client: "   ", Duration: 45}, "", errors.ErrNameRequired},
		{"too_short", slot{Day: "sexta", Client: "Ana", Duration: 5}, "duration", nil},
		{"too_long", slot{Day: "sexta", Client: "Ana", Duration: 185}, "duration", nil},
		{"off_step", slot{Day: "sexta", Client: "Ana", Duration: 47}, "duration", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.name == "valid" || tt.name == "english_day" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ue, ok := errors.AsUserError(err)
			require.True(t, ok)
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, ue.Field)
			}
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestStructStepMessage(t *testing.T) {
	err := Struct(slot{Day: "sexta", Client: "Ana", Duration: 47})
	require.Error(t, err)
	assert.Equal(t, "duration must be a multiple of 5: '47'", err.Error())
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestName(t *testing.T) {
	assert.NoError(t, Name("name", "Ana"))
	assert.Error(t, Name("name", " "))
	assert.Error(t, Name("name", strings.Repeat("a", MaxNameLength+1)))
}

func TestNonEmpty(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"hello", false},
		{" hello ", false},
		{"", true},
		{"   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := NonEmpty("name", tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrNameRequired)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{5, 1, 10, false},
		{1, 1, 10, false},
		{10, 1, 10, false},
		{0, 1, 10, true},
		{11, 1, 10, true},
		{-1, 0, 10, true},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			err := InRange("field", tt.value, tt.min, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	ue, ok := errors.AsUserError(InRange("duration", 200, 10, 180))
	require.True(t, ok)
	assert.Equal(t, "Must be between 10 and 180", ue.Suggestion)
}

// =============================================================================
// Sanitize Tests
// =============================================================================

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Ana Maria", CleanName("  Ana Maria \n"))
	assert.Equal(t, "AnaMaria", CleanName("Ana\x00Maria"))
	assert.Equal(t, "Sônia", CleanName("Sônia"))
}

func TestIsWithinDirectory(t *testing.T) {
	assert.True(t, IsWithinDirectory("/data/imagens/1_a.png", "/data/imagens"))
	assert.True(t, IsWithinDirectory("/data/imagens", "/data/imagens"))
	assert.False(t, IsWithinDirectory("/data/imagens/../agenda.csv", "/data/imagens"))
	assert.False(t, IsWithinDirectory("/data/imagens2/x.png", "/data/imagens"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "Jo...", TruncateString("Joãozinho", 5))
}

func TestSafeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "foto.png", "foto.png"},
		{"with_slash", "path/foto.png", "path_foto.png"},
		{"with_backslash", "path\\foto.png", "path_foto.png"},
		{"with_special", "foto:frente?.png", "foto_frente_.png"},
		{"with_dots", "...foto...", "foto"},
		{"with_spaces", "  foto  ", "foto"},
		{"with_null", "foto\x00frente", "fotofrente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeFilename(tt.input))
		})
	}

	assert.LessOrEqual(t, len(SafeFilename(strings.Repeat("a", 250))), 200)
}
