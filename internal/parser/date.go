package parser

import (
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// DateLayout is the persisted form of assessment dates.
const DateLayout = "2006-01-02"

// ParseDate parses an assessment date. Empty input and "today" mean the
// date of now. ISO dates are read directly; anything else goes through
// go-dateparser with day-first ordering, as the studio writes dates.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "today") || strings.EqualFold(input, "hoje") {
		return truncateDay(now), nil
	}

	if t, err := time.ParseInLocation(DateLayout, input, now.Location()); err == nil {
		return t, nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
		DateOrder:   dateparser.DMY,
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, NewDateError(input)
	}

	return truncateDay(result.Time), nil
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
