package model

// UndoAction represents the type of action that can be undone.
type UndoAction string

const (
	UndoActionRemoveEntry      UndoAction = "remove_entry"
	UndoActionRemoveAssessment UndoAction = "remove_assessment"
)

// KeyUndo is the database key for the undo state.
const KeyUndo = PrefixUndo

// UndoState stores the last removal so it can be restored.
type UndoState struct {
	Key        string      `json:"key"`
	ID         string      `json:"id"`
	Action     UndoAction  `json:"action"`
	Entry      *Entry      `json:"entry,omitempty"`
	EntryTime  string      `json:"entry_time,omitempty"`
	Assessment *Assessment `json:"assessment,omitempty"`
}

// SetKey sets the database key for this undo state.
func (u *UndoState) SetKey(key string) {
	u.Key = key
}

// GetKey returns the database key for this undo state.
func (u *UndoState) GetKey() string {
	return u.Key
}

// NewEntryUndo snapshots a removed schedule entry.
func NewEntryUndo(id string, e Entry) *UndoState {
	return &UndoState{
		Key:       KeyUndo,
		ID:        id,
		Action:    UndoActionRemoveEntry,
		Entry:     &e,
		EntryTime: e.Time.SortKey(),
	}
}

// NewAssessmentUndo snapshots a removed assessment together with its photos.
func NewAssessmentUndo(id string, a Assessment) *UndoState {
	return &UndoState{
		Key:        KeyUndo,
		ID:         id,
		Action:     UndoActionRemoveAssessment,
		Assessment: &a,
	}
}
