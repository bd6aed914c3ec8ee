package mirror

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/manav03panchal/studiodesk/internal/config"
	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const contentsPrefix = "/repos/studio/dados/contents/"

// fakeGitHub implements the slice of the contents API the mirror uses.
type fakeGitHub struct {
	mu       sync.Mutex
	files    map[string][]byte
	gets     int
	puts     int
	failPuts int
	lastPut  putRequest
	inFlight int
	maxConc  int
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{files: map[string][]byte{}}
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer tok" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !strings.HasPrefix(r.URL.Path, contentsPrefix) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, contentsPrefix)

	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxConc {
		f.maxConc = f.inFlight
	}
	f.mu.Unlock()
	time.Sleep(5 * time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.inFlight-- }()

	switch r.Method {
	case http.MethodGet:
		f.gets++
		data, ok := f.files[path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Accept") == "application/vnd.github.raw+json" {
			w.Write(data)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"sha": BlobSHA(data), "path": path})

	case http.MethodPut:
		f.puts++
		if f.failPuts > 0 {
			f.failPuts--
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var req putRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.lastPut = req

		existing, exists := f.files[path]
		if exists && req.SHA != BlobSHA(existing) {
			w.WriteHeader(http.StatusConflict)
			return
		}
		if !exists && req.SHA != "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}

		data, err := base64.StdEncoding.DecodeString(req.Content)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.files[path] = data
		if exists {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusCreated)
		}
		json.NewEncoder(w).Encode(map[string]any{"content": map[string]string{"sha": BlobSHA(data)}})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type mapCache struct {
	mu   sync.Mutex
	shas map[string]string
}

func newMapCache() *mapCache { return &mapCache{shas: map[string]string{}} }

func (c *mapCache) SHA(path string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shas[path], nil
}

func (c *mapCache) SetSHA(path, sha string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shas[path] = sha
	return nil
}

func (c *mapCache) Forget(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.shas, path)
	return nil
}

func setup(t *testing.T, token string) (*GitHub, *fakeGitHub, *mapCache) {
	t.Helper()
	fake := newFakeGitHub()
	srv := httptest.NewServer(fake)

	cache := newMapCache()
	client := NewHTTPClient(HTTPOptions{
		Timeout:     5 * time.Second,
		MaxRetries:  2,
		RetryDelays: []time.Duration{0, 0, 0},
	})
	g := NewGitHub(GitHubConfig{Owner: "studio", Repo: "dados", Token: token, BaseURL: srv.URL + "/"}, client, cache)

	t.Cleanup(func() {
		g.Close()
		srv.Close()
	})
	return g, fake, cache
}

// =============================================================================
// BlobSHA Tests
// =============================================================================

func TestBlobSHA(t *testing.T) {
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", BlobSHA(nil))
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", BlobSHA([]byte("hello\n")))
}

// =============================================================================
// Push Tests
// =============================================================================

func TestPushCreateThenSkipThenUpdate(t *testing.T) {
	g, fake, cache := setup(t, "tok")
	ctx := context.Background()

	v1 := []byte("id,nome,data\n1,Ana,2024-03-05\n")
	require.NoError(t, g.Push(ctx, "data/avaliacoes.csv", v1))
	assert.Equal(t, v1, fake.files["data/avaliacoes.csv"])
	assert.Equal(t, "main", fake.lastPut.Branch)
	assert.Empty(t, fake.lastPut.SHA)
	assert.Equal(t, "Create data/avaliacoes.csv", fake.lastPut.Message)
	assert.Equal(t, BlobSHA(v1), cache.shas["data/avaliacoes.csv"])

	gets, puts := fake.gets, fake.puts
	require.NoError(t, g.Push(ctx, "data/avaliacoes.csv", v1))
	assert.Equal(t, gets, fake.gets, "cached sha answers without a GET")
	assert.Equal(t, puts, fake.puts, "unchanged content is not uploaded")

	v2 := append(v1, []byte("2,Bia,2024-03-06\n")...)
	require.NoError(t, g.Push(ctx, "data/avaliacoes.csv", v2))
	assert.Equal(t, v2, fake.files["data/avaliacoes.csv"])
	assert.Equal(t, BlobSHA(v1), fake.lastPut.SHA)
	assert.Equal(t, "Update data/avaliacoes.csv", fake.lastPut.Message)
}

func TestPushSkipsWhenRemoteMatches(t *testing.T) {
	g, fake, cache := setup(t, "tok")
	data := []byte("same")
	fake.files["data/agenda.csv"] = data

	require.NoError(t, g.Push(context.Background(), "data/agenda.csv", data))
	assert.Equal(t, 1, fake.gets)
	assert.Equal(t, 0, fake.puts)
	assert.Equal(t, BlobSHA(data), cache.shas["data/agenda.csv"])
}

func TestPushRefreshesStaleSHA(t *testing.T) {
	g, fake, cache := setup(t, "tok")
	fake.files["data/agenda.csv"] = []byte("edited elsewhere")
	cache.shas["data/agenda.csv"] = "deadbeef"

	data := []byte("local version")
	require.NoError(t, g.Push(context.Background(), "data/agenda.csv", data))
	assert.Equal(t, data, fake.files["data/agenda.csv"])
	assert.Equal(t, 2, fake.puts)
	assert.Equal(t, BlobSHA(data), cache.shas["data/agenda.csv"])
}

func TestPushRetriesServerErrors(t *testing.T) {
	g, fake, _ := setup(t, "tok")
	fake.failPuts = 2

	require.NoError(t, g.Push(context.Background(), "data/agenda.csv", []byte("x")))
	assert.Equal(t, 3, fake.puts)
}

func TestPushGivesUp(t *testing.T) {
	g, fake, _ := setup(t, "tok")
	fake.failPuts = 10

	err := g.Push(context.Background(), "data/agenda.csv", []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMirrorUnavailable)
	assert.True(t, errors.IsRecoverableError(err))
	assert.Equal(t, 3, fake.puts)
}

func TestPushUnauthorized(t *testing.T) {
	g, _, _ := setup(t, "wrong")

	err := g.Push(context.Background(), "data/agenda.csv", []byte("x"))
	require.Error(t, err)
	assert.True(t, errors.IsUserError(err))
	assert.ErrorIs(t, err, errors.ErrMirrorUnavailable)
}

func TestPushCanceled(t *testing.T) {
	g, _, _ := setup(t, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Push(ctx, "data/agenda.csv", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// Fetch Tests
// =============================================================================

func TestFetch(t *testing.T) {
	g, fake, _ := setup(t, "tok")
	fake.files["imagens/1_20240305_101500_frente.png"] = []byte{0x89, 'P', 'N', 'G'}

	data, err := g.Fetch(context.Background(), "imagens/1_20240305_101500_frente.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

	_, err = g.Fetch(context.Background(), "imagens/missing.png")
	assert.ErrorIs(t, err, errors.ErrPhotoNotFound)
}

// =============================================================================
// PushAll / Hook Tests
// =============================================================================

func TestPushAll(t *testing.T) {
	g, fake, _ := setup(t, "tok")

	var files []File
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		files = append(files, File{Path: "imagens/" + name + ".png", Data: []byte(name)})
	}

	require.NoError(t, PushAll(context.Background(), g, files))
	assert.Len(t, fake.files, 6)
	assert.LessOrEqual(t, fake.maxConc, pushConcurrency)
}

func TestPushAllCollectsErrors(t *testing.T) {
	g, _, _ := setup(t, "wrong")

	err := PushAll(context.Background(), g, []File{{Path: "a.png", Data: []byte("a")}, {Path: "b.png", Data: []byte("b")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a.png")
	assert.Contains(t, err.Error(), "b.png")
}

func TestHookNeverFails(t *testing.T) {
	g, fake, _ := setup(t, "tok")
	hook := Hook(g)

	hook(context.Background(), "data/agenda.csv", []byte("x"))
	assert.Equal(t, []byte("x"), fake.files["data/agenda.csv"])

	fake.failPuts = 10
	hook(context.Background(), "data/agenda.csv", []byte("y"))
	assert.Equal(t, []byte("x"), fake.files["data/agenda.csv"])

	hook(context.Background(), "", []byte("z"))
}

func TestNoop(t *testing.T) {
	var m Mirror = Noop{}
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Push(context.Background(), "x", nil))
	_, err := m.Fetch(context.Background(), "x")
	assert.ErrorIs(t, err, errors.ErrMirrorUnavailable)
	assert.NoError(t, PushAll(context.Background(), m, []File{{Path: "x"}}))
	m.Close()
}

func TestNew(t *testing.T) {
	assert.IsType(t, Noop{}, New(config.MirrorConfig{}, nil))
	assert.IsType(t, Noop{}, New(config.MirrorConfig{Enabled: true}, nil))

	m := New(config.MirrorConfig{Enabled: true, Owner: "studio", Repo: "dados"}, nil)
	defer m.Close()
	assert.IsType(t, &GitHub{}, m)
	assert.True(t, m.Enabled())
}
