// Package mirror copies studio files to a GitHub repository and reads them
// back. The repository is plain remote storage; the local files stay
// authoritative.
package mirror

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strconv"

	"github.com/manav03panchal/studiodesk/internal/config"
	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"github.com/manav03panchal/studiodesk/internal/storage"
)

// Mirror pushes and fetches files by repository path.
type Mirror interface {
	Push(ctx context.Context, path string, data []byte) error
	Fetch(ctx context.Context, path string) ([]byte, error)
	Enabled() bool
	Close()
}

// Noop is the mirror used when mirroring is disabled.
type Noop struct{}

func (Noop) Push(context.Context, string, []byte) error { return nil }

func (Noop) Fetch(context.Context, string) ([]byte, error) {
	return nil, errors.ErrMirrorUnavailable
}

func (Noop) Enabled() bool { return false }

func (Noop) Close() {}

// New returns a GitHub mirror when cfg enables one, otherwise Noop.
func New(cfg config.MirrorConfig, cache SHACache) Mirror {
	if !cfg.Enabled || cfg.Owner == "" || cfg.Repo == "" {
		return Noop{}
	}
	client := NewHTTPClient(HTTPOptions{
		Timeout:           cfg.Timeout,
		MaxRetries:        cfg.MaxRetries,
		RetryDelays:       cfg.RetryDelays,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	return NewGitHub(GitHubConfig{
		Owner:   cfg.Owner,
		Repo:    cfg.Repo,
		Branch:  cfg.Branch,
		Token:   cfg.Token,
		BaseURL: cfg.BaseURL,
	}, client, cache)
}

// SHACache remembers the remote blob SHA of each path between runs.
type SHACache interface {
	SHA(path string) (string, error)
	SetSHA(path, sha string) error
	Forget(path string) error
}

// BlobSHA returns the git blob hash of data, the value GitHub reports as
// a file's "sha".
func BlobSHA(data []byte) string {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(data)) + "\x00"))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hook returns a table save hook that pushes every saved file. Failures
// are logged as warnings and never fail the save.
func Hook(m Mirror) storage.SaveHook {
	return func(ctx context.Context, path string, data []byte) {
		if !m.Enabled() || path == "" {
			return
		}
		if err := m.Push(ctx, path, data); err != nil {
			logging.WarnContext(ctx, "mirror push failed",
				logging.KeyPath, path,
				logging.KeyError, err)
		}
	}
}
