// Package photo stores assessment photos on disk and in the mirror.
package photo

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"github.com/manav03panchal/studiodesk/internal/mirror"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/manav03panchal/studiodesk/internal/storage"
	"github.com/manav03panchal/studiodesk/internal/validate"
)

const (
	// RemoteDir is the mirror directory for photos.
	RemoteDir = "imagens"
	// fileTimeLayout is the timestamp inside generated file names.
	fileTimeLayout = "20060102_150405"
	trashDir       = ".lixeira"
)

// Extensions lists the accepted photo types.
var Extensions = []string{".png", ".jpg", ".jpeg"}

// Supported reports whether name has an accepted extension.
func Supported(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// FileName builds the stored name "{id}_{YYYYMMDD_HHMMSS}_{original}".
func FileName(assessmentID int, at time.Time, original string) string {
	return strconv.Itoa(assessmentID) + "_" + at.Format(fileTimeLayout) + "_" + validate.SafeFilename(filepath.Base(original))
}

// Store keeps photos in one directory. In remote mode reads go to the
// mirror first and fall back to disk.
type Store struct {
	dir    string
	mirror mirror.Mirror
	remote bool
}

// NewStore creates a photo store rooted at dir.
func NewStore(dir string, m mirror.Mirror, remote bool) *Store {
	if m == nil {
		m = mirror.Noop{}
	}
	return &Store{dir: dir, mirror: m, remote: remote}
}

// Dir returns the local photo directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the local path of a stored photo. Names that would leave
// the photo directory are rejected.
func (s *Store) Path(name string) (string, error) {
	p := filepath.Join(s.dir, name)
	if name == "" || filepath.Base(name) != name || !validate.IsWithinDirectory(p, s.dir) {
		return "", errors.NewUserErrorWithField("photo", name, "Invalid photo name", "").WithCause(errors.ErrPhotoNotFound)
	}
	return p, nil
}

// Put stores a single photo.
func (s *Store) Put(ctx context.Context, assessmentID int, src string, at time.Time) (model.Photo, error) {
	photos, err := s.Save(ctx, assessmentID, []string{src}, at)
	if err != nil {
		return model.Photo{}, err
	}
	return photos[0], nil
}

// Save copies every source file into the store with upload time at, then
// mirrors them. Sources are all checked before anything is written.
func (s *Store) Save(ctx context.Context, assessmentID int, sources []string, at time.Time) ([]model.Photo, error) {
	blobs := make([][]byte, len(sources))
	for i, src := range sources {
		if !Supported(src) {
			return nil, errors.NewUserErrorWithField("photo", src,
				"Unsupported photo type",
				"Use a "+strings.Join(Extensions, ", ")+" file").WithCause(errors.ErrUnsupportedPhoto)
		}
		data, err := os.ReadFile(src)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewUserErrorWithField("photo", src, "Photo file not found", "").WithCause(errors.ErrPhotoNotFound)
			}
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
		blobs[i] = data
	}

	if len(sources) > 0 {
		if err := storage.EnsureDirectory(s.dir); err != nil {
			return nil, err
		}
	}

	photos := make([]model.Photo, 0, len(sources))
	files := make([]mirror.File, 0, len(sources))
	for i, src := range sources {
		name := FileName(assessmentID, at, src)
		if err := storage.SafeWrite(filepath.Join(s.dir, name), blobs[i], 0644); err != nil {
			return photos, err
		}
		photos = append(photos, model.Photo{
			AssessmentID: assessmentID,
			File:         name,
			UploadedAt:   at.Format(model.PhotoTimestampLayout),
		})
		files = append(files, mirror.File{Path: path.Join(RemoteDir, name), Data: blobs[i]})
		logging.DebugContext(ctx, "photo stored", logging.KeyPhoto, name, logging.KeyAssessmentID, assessmentID)
	}

	if err := mirror.PushAll(ctx, s.mirror, files); err != nil {
		logging.WarnContext(ctx, "photo mirror failed", logging.KeyError, err)
	}
	return photos, nil
}

// Open returns the bytes of a stored photo.
func (s *Store) Open(ctx context.Context, name string) ([]byte, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	if s.remote && s.mirror.Enabled() {
		data, err := s.mirror.Fetch(ctx, path.Join(RemoteDir, name))
		if err == nil {
			return data, nil
		}
		logging.WarnContext(ctx, "photo fetch failed, reading local copy", logging.KeyPhoto, name, logging.KeyError, err)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewUserErrorWithField("photo", name, "Photo not found", "").WithCause(errors.ErrPhotoNotFound)
		}
		return nil, err
	}
	return data, nil
}

// Remove deletes a stored photo. A missing file is not an error. The
// mirrored copy is kept.
func (s *Store) Remove(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Trash moves a photo aside so Restore can bring it back. A missing file
// is not an error.
func (s *Store) Trash(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(s.dir, trashDir), 0700); err != nil {
		return err
	}
	if err := os.Rename(p, filepath.Join(s.dir, trashDir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Restore moves a trashed photo back. A photo that is not in the trash is
// left alone.
func (s *Store) Restore(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(s.dir, trashDir, name), p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PurgeTrash deletes every trashed photo.
func (s *Store) PurgeTrash() error {
	return os.RemoveAll(filepath.Join(s.dir, trashDir))
}
