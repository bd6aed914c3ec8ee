package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/studiodesk/internal/errors"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 4, 5, 0, time.Local)

	t.Run("empty_is_today", func(t *testing.T) {
		d, err := ParseDate("", now)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", FormatDate(d))
		assert.Equal(t, 0, d.Hour())
	})

	t.Run("today_keyword", func(t *testing.T) {
		d, err := ParseDate("Today", now)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", FormatDate(d))
	})

	t.Run("iso_date", func(t *testing.T) {
		d, err := ParseDate("2023-12-31", now)
		require.NoError(t, err)
		assert.Equal(t, "2023-12-31", FormatDate(d))
	})

	t.Run("yesterday", func(t *testing.T) {
		d, err := ParseDate("yesterday", now)
		require.NoError(t, err)
		assert.Equal(t, "2024-03-04", FormatDate(d))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDate("qwertyuiop", now)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidDate)
	})
}
