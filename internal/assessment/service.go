// Package assessment keeps postural assessment records and their photos.
package assessment

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/parser"
	"github.com/manav03panchal/studiodesk/internal/photo"
	"github.com/manav03panchal/studiodesk/internal/storage"
	"github.com/manav03panchal/studiodesk/internal/validate"
)

// Table is a row store.
type Table interface {
	Load() ([]storage.Record, error)
	Save(ctx context.Context, records []storage.Record) error
}

// CreateRequest is a new assessment as typed by the user.
type CreateRequest struct {
	Name   string `validate:"notblank" label:"name"`
	Date   string
	Photos []string
}

// Comparison is a pair of assessments shown side by side.
type Comparison struct {
	Left  model.Assessment `json:"left" yaml:"left"`
	Right model.Assessment `json:"right" yaml:"right"`
}

// Service reads and changes assessments.
type Service struct {
	records Table
	photos  Table
	store   *photo.Store
	undo    *storage.UndoRepo
	now     func() time.Time
}

// NewService creates an assessment service. undo may be nil.
func NewService(records, photos Table, store *photo.Store, undo *storage.UndoRepo) *Service {
	return &Service{records: records, photos: photos, store: store, undo: undo, now: time.Now}
}

type snapshot struct {
	assessments []model.Assessment
	photoRows   []storage.Record
}

func (s *Service) load(ctx context.Context) (*snapshot, error) {
	records, err := s.records.Load()
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("load assessments", "cannot read assessments", err)
	}
	if fixed, changed := repairIDs(records); changed {
		logging.WarnContext(ctx, "assessment ids renumbered", logging.KeyCount, len(fixed))
		if err := s.records.Save(ctx, fixed); err != nil {
			logging.WarnContext(ctx, "assessment repair not saved", logging.KeyError, err)
		}
		records = fixed
	}

	photoRows, err := s.photos.Load()
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("load photos", "cannot read photo index", err)
	}

	byID := make(map[int][]model.Photo)
	for _, r := range photoRows {
		if p, ok := photoFromRecord(r); ok {
			byID[p.AssessmentID] = append(byID[p.AssessmentID], p)
		}
	}

	snap := &snapshot{photoRows: photoRows}
	for _, r := range records {
		a := fromRecord(r)
		a.Photos = byID[a.ID]
		snap.assessments = append(snap.assessments, a)
	}
	return snap, nil
}

func (snap *snapshot) find(id int) int {
	return slices.IndexFunc(snap.assessments, func(a model.Assessment) bool { return a.ID == id })
}

func (snap *snapshot) nextID() int {
	next := 1
	for _, a := range snap.assessments {
		if a.ID >= next {
			next = a.ID + 1
		}
	}
	return next
}

func (s *Service) saveRecords(ctx context.Context, list []model.Assessment) error {
	records := make([]storage.Record, len(list))
	for i, a := range list {
		records[i] = toRecord(a)
	}
	return s.records.Save(ctx, records)
}

func notFound(id int) error {
	return errors.NewUserErrorWithField("id", strconv.Itoa(id),
		"No assessment with this id",
		"Run 'studiodesk assessment list' to see ids").WithCause(errors.ErrAssessmentNotFound)
}

// Create stores a new assessment with the next free id and copies its
// photos into the photo store.
func (s *Service) Create(ctx context.Context, req CreateRequest) (model.Assessment, error) {
	req.Name = validate.CleanName(req.Name)
	if err := validate.Struct(req); err != nil {
		return model.Assessment{}, err
	}
	if err := validate.Name("name", req.Name); err != nil {
		return model.Assessment{}, err
	}

	now := s.now()
	date, err := parser.ParseDate(req.Date, now)
	if err != nil {
		return model.Assessment{}, errors.NewUserErrorWithField("date", req.Date,
			"Invalid date",
			errors.GetSuggestion(errors.ErrInvalidDate)).WithCause(errors.ErrInvalidDate)
	}

	snap, err := s.load(ctx)
	if err != nil {
		return model.Assessment{}, err
	}

	a := model.Assessment{ID: snap.nextID(), Name: req.Name, Date: date}

	// Photos first: a rejected file leaves no record behind.
	photos, err := s.store.Save(ctx, a.ID, req.Photos, now)
	if err != nil {
		return model.Assessment{}, err
	}
	a.Photos = photos

	if err := s.saveRecords(ctx, append(snap.assessments, a)); err != nil {
		return model.Assessment{}, errors.Wrap(err, "create assessment")
	}
	if len(photos) > 0 {
		rows := slices.Clone(snap.photoRows)
		for _, p := range photos {
			rows = append(rows, photoRecord(p))
		}
		if err := s.photos.Save(ctx, rows); err != nil {
			return a, errors.Wrap(err, "save photo index")
		}
	}

	logging.InfoContext(ctx, "assessment created",
		logging.KeyAssessmentID, a.ID,
		logging.KeyCount, len(photos))
	return a, nil
}

// List returns assessments whose name contains filter (case-insensitive),
// newest first. An empty filter matches everything.
func (s *Service) List(ctx context.Context, filter string) ([]model.Assessment, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	out := make([]model.Assessment, 0, len(snap.assessments))
	for _, a := range snap.assessments {
		if filter == "" || strings.Contains(strings.ToLower(a.Name), filter) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Assessment) int {
		return strings.Compare(b.DateString(), a.DateString())
	})
	return out, nil
}

// Show returns one assessment with its photos.
func (s *Service) Show(ctx context.Context, id int) (model.Assessment, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return model.Assessment{}, err
	}
	i := snap.find(id)
	if i < 0 {
		return model.Assessment{}, notFound(id)
	}
	return snap.assessments[i], nil
}

// Compare returns two assessments side by side. The same id may be given
// twice.
func (s *Service) Compare(ctx context.Context, left, right int) (Comparison, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return Comparison{}, err
	}
	i, j := snap.find(left), snap.find(right)
	if i < 0 {
		return Comparison{}, notFound(left)
	}
	if j < 0 {
		return Comparison{}, notFound(right)
	}
	return Comparison{Left: snap.assessments[i], Right: snap.assessments[j]}, nil
}

// Delete removes an assessment, its photo rows and its photo files. The
// files are moved to the trash and the record journaled, so Undo can bring
// both back until the next delete.
func (s *Service) Delete(ctx context.Context, id int) (model.Assessment, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return model.Assessment{}, err
	}
	i := snap.find(id)
	if i < 0 {
		return model.Assessment{}, notFound(id)
	}
	removed := snap.assessments[i]

	if err := s.store.PurgeTrash(); err != nil {
		logging.WarnContext(ctx, "photo trash not purged", logging.KeyError, err)
	}
	for _, p := range removed.Photos {
		if err := s.store.Trash(p.File); err != nil {
			logging.WarnContext(ctx, "photo not removed", logging.KeyPhoto, p.File, logging.KeyError, err)
		}
	}

	rows := slices.DeleteFunc(slices.Clone(snap.photoRows), func(r storage.Record) bool {
		n, ok := parser.ParseCount(r[ColAssessmentID])
		return ok && n == id
	})
	if err := s.photos.Save(ctx, rows); err != nil {
		return model.Assessment{}, errors.Wrap(err, "save photo index")
	}
	if err := s.saveRecords(ctx, slices.Delete(slices.Clone(snap.assessments), i, i+1)); err != nil {
		return model.Assessment{}, errors.Wrap(err, "delete assessment")
	}

	if s.undo != nil {
		if _, err := s.undo.SaveAssessmentRemoval(removed); err != nil {
			logging.WarnContext(ctx, "undo journal not saved", logging.KeyError, err)
		}
	}

	logging.InfoContext(ctx, "assessment deleted",
		logging.KeyAssessmentID, id,
		logging.KeyCount, len(removed.Photos))
	return removed, nil
}

// Undo restores the last deleted assessment. It keeps its id unless that
// id was taken in the meantime.
func (s *Service) Undo(ctx context.Context) (model.Assessment, error) {
	var state *model.UndoState
	if s.undo != nil {
		var err error
		if state, err = s.undo.Get(); err != nil {
			return model.Assessment{}, errors.NewSystemErrorWithOp("undo", "cannot read undo journal", err)
		}
	}
	if state == nil || state.Action != model.UndoActionRemoveAssessment || state.Assessment == nil {
		return model.Assessment{}, errors.NewUserError("Nothing to undo",
			"Only the last deleted assessment can be restored").WithCause(errors.ErrNothingToUndo)
	}

	snap, err := s.load(ctx)
	if err != nil {
		return model.Assessment{}, err
	}

	a := *state.Assessment
	if snap.find(a.ID) >= 0 {
		a.ID = snap.nextID()
	}
	rows := slices.Clone(snap.photoRows)
	for i := range a.Photos {
		a.Photos[i].AssessmentID = a.ID
		if err := s.store.Restore(a.Photos[i].File); err != nil {
			logging.WarnContext(ctx, "photo not restored", logging.KeyPhoto, a.Photos[i].File, logging.KeyError, err)
		}
		rows = append(rows, photoRecord(a.Photos[i]))
	}

	if err := s.saveRecords(ctx, append(snap.assessments, a)); err != nil {
		return model.Assessment{}, errors.Wrap(err, "undo delete")
	}
	if len(a.Photos) > 0 {
		if err := s.photos.Save(ctx, rows); err != nil {
			return a, errors.Wrap(err, "save photo index")
		}
	}
	if err := s.undo.Clear(); err != nil {
		logging.WarnContext(ctx, "undo journal not cleared", logging.KeyError, err)
	}

	logging.InfoContext(ctx, "assessment restored", logging.KeyAssessmentID, a.ID)
	return a, nil
}
