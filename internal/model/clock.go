package model

import "fmt"

// Clock is a time of day. The sort key and display key are always derived
// from the same hour/minute pair.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// SortKey returns the zero-padded "HH:MM" form used for ordering.
func (c Clock) SortKey() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// DisplayKey returns the zero-padded "HHhMM" form shown to users.
func (c Clock) DisplayKey() string {
	return fmt.Sprintf("%02dh%02d", c.Hour, c.Minute)
}

// Minutes returns minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is earlier in the day than other.
func (c Clock) Before(other Clock) bool {
	return c.Minutes() < other.Minutes()
}

func (c Clock) String() string {
	return c.DisplayKey()
}
