package schedule

import "github.com/manav03panchal/studiodesk/internal/model"

// DayBucket holds one studio day's entries ordered by time.
type DayBucket struct {
	Day     model.Day
	Entries []model.Entry
}

// Week is the sanitized agenda.
type Week struct {
	// Days always has the six studio days in order, empty or not.
	Days [6]DayBucket
	// Rows are the canonical rows in file order, ready to be saved.
	Rows []Row
	// Unscheduled rows have a day that is not a studio day.
	Unscheduled []Row
	// Dropped lists rows removed while sanitizing.
	Dropped []Dropped
	// Reindexed is true when ids were renumbered.
	Reindexed bool
}

func newWeek() *Week {
	w := &Week{}
	for i, d := range model.Week {
		w.Days[i] = DayBucket{Day: d, Entries: []model.Entry{}}
	}
	return w
}

// Bucket returns the bucket for d. Unknown days yield an empty bucket.
func (w *Week) Bucket(d model.Day) DayBucket {
	if i := d.Index(); i >= 0 {
		return w.Days[i]
	}
	return DayBucket{Day: d}
}

// Entries returns every scheduled entry, day by day.
func (w *Week) Entries() []model.Entry {
	var all []model.Entry
	for _, b := range w.Days {
		all = append(all, b.Entries...)
	}
	return all
}

// Count returns the number of scheduled entries.
func (w *Week) Count() int {
	n := 0
	for _, b := range w.Days {
		n += len(b.Entries)
	}
	return n
}

// Empty reports whether no day has an entry.
func (w *Week) Empty() bool {
	return w.Count() == 0
}

// Find returns the scheduled entry with the given id.
func (w *Week) Find(id int) (model.Entry, bool) {
	for _, b := range w.Days {
		for _, e := range b.Entries {
			if e.ID == id {
				return e, true
			}
		}
	}
	return model.Entry{}, false
}

// NextID returns the id a new row gets: the highest id plus one.
func (w *Week) NextID() int {
	return len(w.Rows) + 1
}
