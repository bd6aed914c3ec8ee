package schedule

import (
	"context"
	"slices"
	"strconv"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/parser"
	"github.com/manav03panchal/studiodesk/internal/storage"
	"github.com/manav03panchal/studiodesk/internal/validate"
)

// Table is the row store behind the agenda.
type Table interface {
	Load() ([]storage.Record, error)
	Save(ctx context.Context, records []storage.Record) error
}

// BookRequest is a new slot as typed by the user.
type BookRequest struct {
	Day          string `validate:"required,weekday" label:"day"`
	Time         string `validate:"notblank" label:"time"`
	Client       string `validate:"notblank" label:"client"`
	Professional string `validate:"notblank" label:"professional"`
	Duration     int    `validate:"min=10,max=180,step5" label:"duration"`
}

// Service reads and changes the agenda. Every operation starts from a
// sanitized load, and a load that repaired anything writes the result back.
type Service struct {
	table  Table
	undo   *storage.UndoRepo
	policy parser.ClockPolicy
}

// NewService creates a schedule service. undo may be nil, which disables
// the undo journal.
func NewService(table Table, undo *storage.UndoRepo, policy parser.ClockPolicy) *Service {
	return &Service{table: table, undo: undo, policy: policy}
}

// Load reads and sanitizes the agenda. If sanitizing changed any row the
// canonical rows are saved; a failed write-back is logged, not returned.
func (s *Service) Load(ctx context.Context) (*Week, error) {
	records, err := s.table.Load()
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("load agenda", "cannot read agenda", err)
	}

	rows := RowsFromRecords(records)
	week := Sanitize(rows, s.policy)
	s.logReport(ctx, week)

	if !slices.Equal(rows, week.Rows) {
		if err := s.table.Save(ctx, Records(week.Rows)); err != nil {
			logging.WarnContext(ctx, "agenda repair not saved", logging.KeyError, err)
		} else {
			logging.InfoContext(ctx, "agenda repaired",
				logging.KeyCount, len(week.Rows),
				"dropped", len(week.Dropped),
				"reindexed", week.Reindexed)
		}
	}
	return week, nil
}

func (s *Service) logReport(ctx context.Context, w *Week) {
	for _, d := range w.Dropped {
		logging.WarnContext(ctx, "agenda row dropped",
			logging.KeyReason, string(d.Reason),
			logging.KeyEntryID, d.Row.ID,
			logging.KeyDay, d.Row.Day,
			"time", d.Row.Time,
			"time_sort", d.Row.TimeSort)
	}
	for _, r := range w.Unscheduled {
		logging.DebugContext(ctx, "agenda row on unknown day",
			logging.KeyEntryID, r.ID,
			logging.KeyDay, r.Day)
	}
}

// Book validates req and appends it to the agenda with the next id.
func (s *Service) Book(ctx context.Context, req BookRequest) (model.Entry, error) {
	req.Client = validate.CleanName(req.Client)
	req.Professional = validate.CleanName(req.Professional)
	if err := validate.Struct(req); err != nil {
		return model.Entry{}, err
	}
	if err := validate.Name("client", req.Client); err != nil {
		return model.Entry{}, err
	}
	if err := validate.Name("professional", req.Professional); err != nil {
		return model.Entry{}, err
	}

	day, _ := model.ParseDay(req.Day)
	clock, err := parser.NormalizeClock(req.Time, s.policy)
	if err == nil {
		// Finalize drops keys outside 00:00-23:59 under any policy.
		if _, ok := parser.ParseSortKey(clock.SortKey()); !ok {
			err = parser.NewClockError(req.Time, "hour must be between 0 and 23")
		}
	}
	if err != nil {
		return model.Entry{}, errors.NewUserErrorWithField("time", req.Time,
			"Invalid time",
			errors.GetSuggestion(errors.ErrInvalidTime)).WithCause(errors.ErrInvalidTime)
	}

	week, err := s.Load(ctx)
	if err != nil {
		return model.Entry{}, err
	}

	entry := model.Entry{
		ID:              week.NextID(),
		Day:             day,
		Time:            clock,
		Client:          req.Client,
		Professional:    req.Professional,
		DurationMinutes: req.Duration,
	}
	if err := s.table.Save(ctx, Records(append(week.Rows, rowFromEntry(entry)))); err != nil {
		return model.Entry{}, errors.Wrap(err, "book entry")
	}

	logging.InfoContext(ctx, "entry booked",
		logging.KeyEntryID, entry.ID,
		logging.KeyDay, string(entry.Day),
		"time", entry.Time.SortKey())
	return entry, nil
}

// Remove deletes the entry with the given id and journals it for Undo.
// The remaining rows are renumbered 1..N.
func (s *Service) Remove(ctx context.Context, id int) (model.Entry, error) {
	week, err := s.Load(ctx)
	if err != nil {
		return model.Entry{}, err
	}

	key := strconv.Itoa(id)
	i := slices.IndexFunc(week.Rows, func(r Row) bool { return r.ID == key })
	if i < 0 {
		return model.Entry{}, errors.NewUserErrorWithField("id", key,
			"No schedule entry with this id",
			"Run 'studiodesk schedule' to list entries").WithCause(errors.ErrEntryNotFound)
	}

	removed := entryFromRow(week.Rows[i])
	rest := ReindexIDs(slices.Delete(slices.Clone(week.Rows), i, i+1))
	if err := s.table.Save(ctx, Records(rest)); err != nil {
		return model.Entry{}, errors.Wrap(err, "remove entry")
	}

	if s.undo != nil {
		if _, err := s.undo.SaveEntryRemoval(removed); err != nil {
			logging.WarnContext(ctx, "undo journal not saved", logging.KeyError, err)
		}
	}

	logging.InfoContext(ctx, "entry removed", logging.KeyEntryID, id)
	return removed, nil
}

// Undo books the last removed entry again under a new id.
func (s *Service) Undo(ctx context.Context) (model.Entry, error) {
	var state *model.UndoState
	if s.undo != nil {
		var err error
		if state, err = s.undo.Get(); err != nil {
			return model.Entry{}, errors.NewSystemErrorWithOp("undo", "cannot read undo journal", err)
		}
	}
	if state == nil || state.Action != model.UndoActionRemoveEntry || state.Entry == nil {
		return model.Entry{}, errors.NewUserError("Nothing to undo",
			"Only the last removed schedule entry can be restored").WithCause(errors.ErrNothingToUndo)
	}

	entry := *state.Entry
	if c, ok := parser.ParseSortKey(state.EntryTime); ok {
		entry.Time = c
	}

	week, err := s.Load(ctx)
	if err != nil {
		return model.Entry{}, err
	}
	entry.ID = week.NextID()

	if err := s.table.Save(ctx, Records(append(week.Rows, rowFromEntry(entry)))); err != nil {
		return model.Entry{}, errors.Wrap(err, "undo remove")
	}
	if err := s.undo.Clear(); err != nil {
		logging.WarnContext(ctx, "undo journal not cleared", logging.KeyError, err)
	}

	logging.InfoContext(ctx, "entry restored", logging.KeyEntryID, entry.ID)
	return entry, nil
}
