package model

import "fmt"

// Duration bounds for a booked slot, in minutes.
const (
	MinDurationMinutes     = 10
	MaxDurationMinutes     = 180
	DurationStepMinutes    = 5
	DefaultDurationMinutes = 45
)

// Entry is one booked slot in the weekly schedule. Entries are never edited
// in place: a change is a removal followed by a new booking.
type Entry struct {
	ID              int    `json:"id"`
	Day             Day    `json:"day"`
	Time            Clock  `json:"-"`
	Client          string `json:"client"`
	Professional    string `json:"professional"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Line renders the entry the way the weekly sheet prints it:
// "08h00 - Ana (Fernanda) [45 min]".
func (e Entry) Line() string {
	return fmt.Sprintf("%s - %s (%s) [%d min]", e.Time.DisplayKey(), e.Client, e.Professional, e.DurationMinutes)
}
