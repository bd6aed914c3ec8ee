package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

// pushConcurrency bounds PushAll.
const pushConcurrency = 3

// GitHubConfig identifies the repository and branch.
type GitHubConfig struct {
	Owner   string
	Repo    string
	Branch  string
	Token   string
	BaseURL string
}

// GitHub mirrors files through the repository contents API.
type GitHub struct {
	cfg   GitHubConfig
	http  *HTTPClient
	cache SHACache
}

// NewGitHub creates a GitHub mirror. cache may be nil.
func NewGitHub(cfg GitHubConfig, client *HTTPClient, cache SHACache) *GitHub {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GitHub{cfg: cfg, http: client, cache: cache}
}

// Enabled reports true.
func (g *GitHub) Enabled() bool { return true }

// Close releases idle HTTP connections.
func (g *GitHub) Close() {
	g.http.CloseIdleConnections()
}

type contentResponse struct {
	SHA string `json:"sha"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content contentResponse `json:"content"`
}

func (g *GitHub) contentsURL(path string) string {
	segments := strings.Split(strings.TrimLeft(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		g.cfg.BaseURL, url.PathEscape(g.cfg.Owner), url.PathEscape(g.cfg.Repo), strings.Join(segments, "/"))
}

func (g *GitHub) header(accept string) http.Header {
	h := http.Header{}
	h.Set("Accept", accept)
	h.Set("X-GitHub-Api-Version", "2022-11-28")
	if g.cfg.Token != "" {
		h.Set("Authorization", "Bearer "+g.cfg.Token)
	}
	return h
}

// Push creates or updates path with data. Nothing is sent when the remote
// blob already has the same content. A stale SHA (409 or 422) is refreshed
// once.
func (g *GitHub) Push(ctx context.Context, path string, data []byte) error {
	err := g.push(ctx, path, data)
	if errors.Is(err, errors.ErrMirrorConflict) {
		logging.DebugContext(ctx, "mirror sha stale, retrying", logging.KeyPath, path)
		g.forget(path)
		err = g.push(ctx, path, data)
	}
	return err
}

func (g *GitHub) push(ctx context.Context, path string, data []byte) error {
	local := BlobSHA(data)

	remote := g.cachedSHA(path)
	if remote == "" {
		var err error
		if remote, err = g.remoteSHA(ctx, path); err != nil {
			return err
		}
	}

	if remote == local {
		g.remember(path, local)
		logging.DebugContext(ctx, "mirror up to date", logging.KeyPath, path)
		return nil
	}

	verb := "Create"
	if remote != "" {
		verb = "Update"
	}
	body, err := json.Marshal(putRequest{
		Message: fmt.Sprintf("%s %s", verb, path),
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  g.cfg.Branch,
		SHA:     remote,
	})
	if err != nil {
		return err
	}

	h := g.header("application/vnd.github+json")
	h.Set("Content-Type", "application/json")
	resp, err := g.http.Do(ctx, http.MethodPut, g.contentsURL(path), h, body)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s (HTTP %d)", errors.ErrMirrorConflict, path, resp.StatusCode)
	default:
		return statusError("push", path, resp)
	}

	var out putResponse
	if err := json.Unmarshal(resp.Body, &out); err == nil && out.Content.SHA != "" {
		local = out.Content.SHA
	}
	g.remember(path, local)

	logging.InfoContext(ctx, "mirror pushed",
		logging.KeyPath, path,
		"attempts", resp.Attempts,
		logging.KeyDuration, resp.Duration.Milliseconds())
	return nil
}

// remoteSHA returns the blob SHA of path on the branch, or "" if absent.
func (g *GitHub) remoteSHA(ctx context.Context, path string) (string, error) {
	u := g.contentsURL(path) + "?ref=" + url.QueryEscape(g.cfg.Branch)
	resp, err := g.http.Do(ctx, http.MethodGet, u, g.header("application/vnd.github+json"), nil)
	if err != nil {
		return "", err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", nil
	default:
		return "", statusError("stat", path, resp)
	}

	var out contentResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return "", fmt.Errorf("%w: bad contents response for %s: %v", errors.ErrMirrorUnavailable, path, err)
	}
	return out.SHA, nil
}

// Fetch downloads the raw content of path from the branch.
func (g *GitHub) Fetch(ctx context.Context, path string) ([]byte, error) {
	u := g.contentsURL(path) + "?ref=" + url.QueryEscape(g.cfg.Branch)
	resp, err := g.http.Do(ctx, http.MethodGet, u, g.header("application/vnd.github.raw+json"), nil)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", errors.ErrPhotoNotFound, path)
	}
	return nil, statusError("fetch", path, resp)
}

// File is one file for PushAll.
type File struct {
	Path string
	Data []byte
}

// PushAll pushes files concurrently and returns every failure joined.
func PushAll(ctx context.Context, m Mirror, files []File) error {
	if !m.Enabled() {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pushConcurrency)

	errs := make([]error, len(files))
	for i, f := range files {
		g.Go(func() error {
			if err := m.Push(ctx, f.Path, f.Data); err != nil {
				errs[i] = fmt.Errorf("%s: %w", f.Path, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (g *GitHub) cachedSHA(path string) string {
	if g.cache == nil {
		return ""
	}
	sha, err := g.cache.SHA(path)
	if err != nil {
		logging.DebugLog("mirror cache read failed", logging.KeyPath, path, logging.KeyError, err)
		return ""
	}
	return sha
}

func (g *GitHub) remember(path, sha string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.SetSHA(path, sha); err != nil {
		logging.DebugLog("mirror cache write failed", logging.KeyPath, path, logging.KeyError, err)
	}
}

func (g *GitHub) forget(path string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Forget(path); err != nil {
		logging.DebugLog("mirror cache delete failed", logging.KeyPath, path, logging.KeyError, err)
	}
}

func statusError(op, path string, resp *Response) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.NewUserError(
			fmt.Sprintf("mirror %s %s refused (HTTP %d)", op, path, resp.StatusCode),
			"Check mirror.token and its repository permissions").WithCause(errors.ErrMirrorUnavailable)
	}
	return fmt.Errorf("%w: %s %s: HTTP %d: %s", errors.ErrMirrorUnavailable, op, path, resp.StatusCode, truncate(resp.Body))
}
