package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/manav03panchal/studiodesk/internal/model"
)

// ClockPolicy controls range checking in NormalizeClock.
type ClockPolicy int

const (
	// ClockStrict rejects hours above 23 and minutes above 59.
	ClockStrict ClockPolicy = iota
	// ClockLenient accepts any digit run, matching files written by older
	// revisions of the agenda that never range-checked.
	ClockLenient
)

// NormalizeClock parses loose time-of-day text such as "8", "8h", "8h30",
// "8:0" or "08:00".
//
// Whitespace is removed, "h" is read as the separator, a missing or empty
// minute part means ":00" and a minute part that is not all digits is read
// as "00". The hour part must be all digits.
func NormalizeClock(input string, policy ClockPolicy) (model.Clock, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(input))

	s = strings.ReplaceAll(s, "h", ":")
	if !strings.Contains(s, ":") {
		s += ":00"
	}
	if strings.HasSuffix(s, ":") {
		s += "00"
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return model.Clock{}, NewClockError(input, "expected hours and minutes")
	}

	hh, mm := parts[0], parts[1]
	if !isDigits(hh) {
		return model.Clock{}, NewClockError(input, "hour must be a number")
	}
	if !isDigits(mm) {
		mm = "00"
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return model.Clock{}, NewClockError(input, "hour has too many digits")
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return model.Clock{}, NewClockError(input, "minute has too many digits")
	}

	if policy == ClockStrict {
		if hour > 23 {
			return model.Clock{}, NewClockError(input, "hour must be between 0 and 23")
		}
		if minute > 59 {
			return model.Clock{}, NewClockError(input, "minute must be between 0 and 59")
		}
	}

	return model.Clock{Hour: hour, Minute: minute}, nil
}

// ParseSortKey parses a canonical "HH:MM" key: exactly two digits on each
// side, hour 0-23, minute 0-59.
func ParseSortKey(s string) (model.Clock, bool) {
	if len(s) != 5 || s[2] != ':' {
		return model.Clock{}, false
	}
	hh, mm := s[:2], s[3:]
	if !isDigits(hh) || !isDigits(mm) {
		return model.Clock{}, false
	}
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	if hour > 23 || minute > 59 {
		return model.Clock{}, false
	}
	return model.Clock{Hour: hour, Minute: minute}, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
