package storage

import (
	"time"

	"github.com/manav03panchal/studiodesk/internal/model"
)

// MirrorStateRepo caches the remote blob SHA of each mirrored path.
type MirrorStateRepo struct {
	db *DB
}

// NewMirrorStateRepo creates a new mirror state repository.
func NewMirrorStateRepo(db *DB) *MirrorStateRepo {
	return &MirrorStateRepo{db: db}
}

// SHA returns the cached blob SHA for path, or "" when unknown.
func (r *MirrorStateRepo) SHA(path string) (string, error) {
	state := &model.MirrorState{}
	if err := r.db.Get(model.GenerateMirrorKey(path), state); err != nil {
		if IsErrKeyNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return state.SHA, nil
}

// SetSHA records the blob SHA last seen for path.
func (r *MirrorStateRepo) SetSHA(path, sha string) error {
	return r.db.Set(&model.MirrorState{
		Key:       model.GenerateMirrorKey(path),
		Path:      path,
		SHA:       sha,
		UpdatedAt: time.Now().UTC(),
	})
}

// Forget drops the cached SHA for path.
func (r *MirrorStateRepo) Forget(path string) error {
	return r.db.Delete(model.GenerateMirrorKey(path))
}

// List returns every cached mirror state.
func (r *MirrorStateRepo) List() ([]*model.MirrorState, error) {
	return GetAllByPrefix(r.db, model.PrefixMirror+":", func() *model.MirrorState {
		return &model.MirrorState{}
	})
}
