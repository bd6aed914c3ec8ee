package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/manav03panchal/studiodesk/internal/model"
)

// UndoTTL is how long a removal stays undoable.
const UndoTTL = 30 * 24 * time.Hour

// UndoRepo keeps the single-slot undo journal.
type UndoRepo struct {
	db *DB
}

// NewUndoRepo creates a new undo repository.
func NewUndoRepo(db *DB) *UndoRepo {
	return &UndoRepo{db: db}
}

// Get retrieves the current undo state, or nil when there is none.
func (r *UndoRepo) Get() (*model.UndoState, error) {
	state := &model.UndoState{}
	if err := r.db.Get(model.KeyUndo, state); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return state, nil
}

// Set saves the undo state, replacing any previous one. It expires after
// UndoTTL.
func (r *UndoRepo) Set(state *model.UndoState) error {
	state.Key = model.KeyUndo
	return r.db.Put(state, UndoTTL)
}

// Clear removes the undo state.
func (r *UndoRepo) Clear() error {
	return r.db.Delete(model.KeyUndo)
}

// SaveEntryRemoval journals a removed schedule entry.
func (r *UndoRepo) SaveEntryRemoval(e model.Entry) (*model.UndoState, error) {
	state := model.NewEntryUndo(newUndoID(), e)
	return state, r.Set(state)
}

// SaveAssessmentRemoval journals a removed assessment with its photo rows.
func (r *UndoRepo) SaveAssessmentRemoval(a model.Assessment) (*model.UndoState, error) {
	state := model.NewAssessmentUndo(newUndoID(), a)
	return state, r.Set(state)
}

func newUndoID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
