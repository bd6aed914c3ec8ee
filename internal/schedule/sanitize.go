package schedule

import (
	"sort"
	"strconv"
	"strings"

	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/parser"
)

// DropReason says why a row left the agenda during sanitizing.
type DropReason string

const (
	DropBlank       DropReason = "blank"
	DropDuplicate   DropReason = "duplicate"
	DropMissingTime DropReason = "missing_time"
	DropBadTime     DropReason = "unparseable_time"
)

// Dropped is a row removed by Clean or Finalize.
type Dropped struct {
	Row    Row
	Reason DropReason
}

// Clean drops blank rows, exact duplicates (the first copy stays) and rows
// with no display time. IDs are not touched.
func Clean(rows []Row) []Row {
	kept, _ := clean(rows)
	return kept
}

func clean(rows []Row) ([]Row, []Dropped) {
	kept := make([]Row, 0, len(rows))
	var dropped []Dropped
	seen := make(map[Row]struct{}, len(rows))

	for _, r := range rows {
		switch {
		case r.Blank():
			dropped = append(dropped, Dropped{Row: r, Reason: DropBlank})
			continue
		case strings.TrimSpace(r.Time) == "":
			dropped = append(dropped, Dropped{Row: r, Reason: DropMissingTime})
			continue
		}
		if _, dup := seen[r]; dup {
			dropped = append(dropped, Dropped{Row: r, Reason: DropDuplicate})
			continue
		}
		seen[r] = struct{}{}
		kept = append(kept, r)
	}
	return kept, dropped
}

// RepairTimes rewrites both time fields of every row in canonical form.
//
// The display time is tried first. Only the text after the last whitespace
// counts, which strips date prefixes such as "1900-01-01 08h00". When that
// fails the sort time is tried the same way; old files stored it as
// "1900-01-01 08:00:00". Rows where neither parses are left as they are.
// Running RepairTimes on its own output changes nothing.
func RepairTimes(rows []Row, policy parser.ClockPolicy) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		c, ok := repairClock(r.Time, policy)
		if !ok {
			c, ok = repairClock(dropSeconds(lastField(r.TimeSort)), policy)
		}
		if ok {
			r.Time = c.DisplayKey()
			r.TimeSort = c.SortKey()
		}
		out[i] = r
	}
	return out
}

func repairClock(s string, policy parser.ClockPolicy) (model.Clock, bool) {
	s = lastField(s)
	if s == "" {
		return model.Clock{}, false
	}
	c, err := parser.NormalizeClock(s, policy)
	return c, err == nil
}

// lastField returns the text after the last run of whitespace.
func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// dropSeconds turns "08:00:00" into "08:00".
func dropSeconds(s string) string {
	parts := strings.Split(s, ":")
	if len(parts) == 3 && len(parts[2]) == 2 {
		return parts[0] + ":" + parts[1]
	}
	return s
}

// ReindexIDs numbers rows 1..N in their current order unless the stored ids
// already are exactly 1..N. An id that is not a non-negative integer counts
// as missing; "3.0" reads as 3.
func ReindexIDs(rows []Row) []Row {
	out, _ := reindex(rows)
	return out
}

func reindex(rows []Row) ([]Row, bool) {
	out := make([]Row, len(rows))
	copy(out, rows)

	ids := make([]int, len(out))
	seen := make(map[int]struct{}, len(out))
	valid := true
	for i, r := range out {
		id, ok := parser.ParseCount(r.ID)
		if !ok || id < 1 || id > len(out) {
			valid = false
			break
		}
		if _, dup := seen[id]; dup {
			valid = false
			break
		}
		seen[id] = struct{}{}
		ids[i] = id
	}

	if valid {
		// Same ids, canonical text.
		for i := range out {
			out[i].ID = strconv.Itoa(ids[i])
		}
		return out, false
	}

	for i := range out {
		out[i].ID = strconv.Itoa(i + 1)
	}
	return out, len(out) > 0
}

// Finalize drops rows whose sort time is not a strict "HH:MM", renumbers
// ids when needed and groups the rest into the six studio days ordered by
// time. Rows with equal times keep their relative order. Rows on an unknown
// day stay in Week.Rows and Week.Unscheduled but in no bucket.
func Finalize(rows []Row) *Week {
	w := newWeek()

	valid := make([]Row, 0, len(rows))
	for _, r := range rows {
		if _, ok := parser.ParseSortKey(r.TimeSort); !ok {
			w.Dropped = append(w.Dropped, Dropped{Row: r, Reason: DropBadTime})
			continue
		}
		valid = append(valid, r)
	}

	valid, w.Reindexed = reindex(valid)

	for i, r := range valid {
		day, ok := model.ParseDay(r.Day)
		if !ok {
			w.Unscheduled = append(w.Unscheduled, r)
			continue
		}
		r.Day = string(day)
		valid[i] = r

		b := &w.Days[day.Index()]
		b.Entries = append(b.Entries, entryFromRow(r))
	}
	w.Rows = valid

	for i := range w.Days {
		entries := w.Days[i].Entries
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Time.Before(entries[b].Time)
		})
	}
	return w
}

// entryFromRow converts a row whose sort time already parsed. A duration
// that is not a number reads as 0.
func entryFromRow(r Row) model.Entry {
	clock, _ := parser.ParseSortKey(r.TimeSort)
	id, _ := strconv.Atoi(r.ID)
	duration, _ := parser.ParseCount(r.Duration)

	day := model.Day(r.Day)
	if d, ok := model.ParseDay(r.Day); ok {
		day = d
	}

	return model.Entry{
		ID:              id,
		Day:             day,
		Time:            clock,
		Client:          r.Client,
		Professional:    r.Professional,
		DurationMinutes: duration,
	}
}

// rowFromEntry renders an entry in canonical row form.
func rowFromEntry(e model.Entry) Row {
	return Row{
		ID:           strconv.Itoa(e.ID),
		Day:          string(e.Day),
		Time:         e.Time.DisplayKey(),
		TimeSort:     e.Time.SortKey(),
		Client:       e.Client,
		Professional: e.Professional,
		Duration:     strconv.Itoa(e.DurationMinutes),
	}
}

// Sanitize runs the full repair pipeline:
// Finalize(ReindexIDs(RepairTimes(Clean(rows)))).
func Sanitize(rows []Row, policy parser.ClockPolicy) *Week {
	cleaned, dropped := clean(rows)
	repaired, reindexed := reindex(RepairTimes(cleaned, policy))

	w := Finalize(repaired)
	w.Dropped = append(dropped, w.Dropped...)
	w.Reindexed = w.Reindexed || reindexed
	return w
}
