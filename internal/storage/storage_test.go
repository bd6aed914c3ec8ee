package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var agendaColumns = []string{"id", "dia", "horario", "horario_sort", "nome", "profissional", "duracao"}

// =============================================================================
// DB Tests
// =============================================================================

func TestOpenClose(t *testing.T) {
	t.Run("in_memory", func(t *testing.T) {
		db, err := Open(Options{InMemory: true})
		require.NoError(t, err)
		assert.Equal(t, "", db.Path())
		assert.NotNil(t, db.Badger())
		assert.NoError(t, db.Close())
	})

	t.Run("on_disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "state")
		db, err := Open(Options{Path: path})
		require.NoError(t, err)
		assert.Equal(t, path, db.Path())
		assert.NoError(t, db.Close())
	})
}

func TestOpenWithIntegrityCheck(t *testing.T) {
	db, err := OpenWithIntegrityCheck(Options{InMemory: true})
	require.NoError(t, err)
	defer db.Close()
	assert.NoError(t, db.CheckIntegrity())
}

func TestOpenState(t *testing.T) {
	dir := t.TempDir()
	db, err := OpenState(dir)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, StatePath(dir), db.Path())
}

func TestDefaultDataDir(t *testing.T) {
	assert.Contains(t, DefaultDataDir(), "studiodesk")
}

func TestCRUD(t *testing.T) {
	db := setupTestDB(t)

	state := &model.MirrorState{Key: model.GenerateMirrorKey("data/agenda.csv"), Path: "data/agenda.csv", SHA: "abc"}
	require.NoError(t, db.Set(state))

	got := &model.MirrorState{}
	require.NoError(t, db.Get(state.Key, got))
	assert.Equal(t, "abc", got.SHA)
	assert.Equal(t, state.Key, got.Key)

	keys, err := db.ListByPrefix("mirror:")
	require.NoError(t, err)
	assert.Equal(t, []string{state.Key}, keys)

	all, err := GetAllByPrefix(db, "mirror:", func() *model.MirrorState { return &model.MirrorState{} })
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, state.Key, all[0].Key)

	require.NoError(t, db.Delete(state.Key))
	err = db.Get(state.Key, got)
	assert.True(t, IsErrKeyNotFound(err))
}

func TestPutExpires(t *testing.T) {
	db := setupTestDB(t)

	state := &model.MirrorState{Key: model.GenerateMirrorKey("tmp"), SHA: "x"}
	require.NoError(t, db.Put(state, time.Second))
	require.NoError(t, db.Get(state.Key, &model.MirrorState{}))

	time.Sleep(2100 * time.Millisecond)
	assert.ErrorIs(t, db.Get(state.Key, &model.MirrorState{}), ErrKeyNotFound)
}

// =============================================================================
// Repo Tests
// =============================================================================

func TestUndoRepo(t *testing.T) {
	repo := NewUndoRepo(setupTestDB(t))

	state, err := repo.Get()
	require.NoError(t, err)
	assert.Nil(t, state)

	entry := model.Entry{ID: 3, Day: model.Tuesday, Time: model.Clock{Hour: 9, Minute: 30}, Client: "Ana", Professional: "Bia", DurationMinutes: 45}
	saved, err := repo.SaveEntryRemoval(entry)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	got, err := repo.Get()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.UndoActionRemoveEntry, got.Action)
	assert.Equal(t, "09:30", got.EntryTime)
	assert.Equal(t, "Ana", got.Entry.Client)

	_, err = repo.SaveAssessmentRemoval(model.Assessment{ID: 1, Name: "Carla"})
	require.NoError(t, err)
	got, err = repo.Get()
	require.NoError(t, err)
	assert.Equal(t, model.UndoActionRemoveAssessment, got.Action)
	assert.Nil(t, got.Entry)

	require.NoError(t, repo.Clear())
	got, err = repo.Get()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMirrorStateRepo(t *testing.T) {
	repo := NewMirrorStateRepo(setupTestDB(t))

	sha, err := repo.SHA("data/agenda.csv")
	require.NoError(t, err)
	assert.Empty(t, sha)

	require.NoError(t, repo.SetSHA("data/agenda.csv", "111"))
	require.NoError(t, repo.SetSHA("imagens/1_x.png", "222"))

	sha, err = repo.SHA("data/agenda.csv")
	require.NoError(t, err)
	assert.Equal(t, "111", sha)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Forget("data/agenda.csv"))
	sha, err = repo.SHA("data/agenda.csv")
	require.NoError(t, err)
	assert.Empty(t, sha)
}

// =============================================================================
// Table Tests
// =============================================================================

func TestTableLoadMissingFile(t *testing.T) {
	table := &Table{Path: filepath.Join(t.TempDir(), "agenda.csv"), Columns: agendaColumns}
	records, err := table.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTableParse(t *testing.T) {
	table := &Table{Columns: []string{"id", "nome", "data"}}

	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "header_only",
			input: "id,nome,data\n",
			want:  nil,
		},
		{
			name:  "reordered_header_with_bom",
			input: "\xef\xbb\xbfdata,id,nome\n2024-03-05,1,Ana\n",
			want:  []Record{{"id": "1", "nome": "Ana", "data": "2024-03-05"}},
		},
		{
			name:  "missing_and_extra_columns",
			input: "id,nome,extra\n1,Ana,x\n",
			want:  []Record{{"id": "1", "nome": "Ana", "data": ""}},
		},
		{
			name:  "ragged_row",
			input: "id,nome,data\n1\n",
			want:  []Record{{"id": "1", "nome": "", "data": ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableSaveAndAppend(t *testing.T) {
	dir := t.TempDir()
	var hookPath string
	var hookData []byte

	table := &Table{
		Path:       filepath.Join(dir, "data", "avaliacoes.csv"),
		RemotePath: "data/avaliacoes.csv",
		Columns:    []string{"id", "nome", "data"},
		AfterSave: func(_ context.Context, remotePath string, data []byte) {
			hookPath = remotePath
			hookData = data
		},
	}

	ctx := context.Background()
	require.NoError(t, table.Save(ctx, []Record{{"id": "1", "nome": "Ana, Maria", "data": "2024-03-05"}}))
	require.NoError(t, table.Append(ctx, Record{"id": "2", "nome": "Bia", "data": "2024-03-06"}))

	raw, err := os.ReadFile(table.Path)
	require.NoError(t, err)
	assert.Equal(t, "id,nome,data\n1,\"Ana, Maria\",2024-03-05\n2,Bia,2024-03-06\n", string(raw))
	assert.Equal(t, "data/avaliacoes.csv", hookPath)
	assert.Equal(t, raw, hookData)

	records, err := table.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Ana, Maria", records[0]["nome"])
}

// =============================================================================
// Safety Tests
// =============================================================================

func TestDiskSpaceInfo(t *testing.T) {
	assert.Equal(t, 0.0, (&DiskSpaceInfo{TotalBytes: 0, FreeBytes: 100}).FreePercent())
	assert.Equal(t, 25.0, (&DiskSpaceInfo{TotalBytes: 1000, FreeBytes: 250}).FreePercent())
}

func TestGetDiskSpace(t *testing.T) {
	info, err := GetDiskSpace(filepath.Join(t.TempDir(), "missing", "child"))
	require.NoError(t, err)
	assert.Greater(t, info.TotalBytes, uint64(0))
}

func TestSafeWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agenda.csv")

	require.NoError(t, SafeWrite(path, []byte("one"), 0644))
	require.NoError(t, SafeWrite(path, []byte("two"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".studiodesk-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestIsDiskFullError(t *testing.T) {
	assert.False(t, isDiskFullError(nil))
	assert.False(t, isDiskFullError(fmt.Errorf("some error")))
}

func TestIOError(t *testing.T) {
	err := ioError("write", fmt.Errorf("boom"))
	assert.EqualError(t, err, "write: boom")
	assert.NotErrorIs(t, err, errors.ErrDiskFull)
}

func TestEnsureDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "nested")
	require.NoError(t, EnsureDirectory(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// =============================================================================
// Recovery Tests
// =============================================================================

func TestCheckDatabaseIntegrity(t *testing.T) {
	t.Run("nil_database", func(t *testing.T) {
		status := CheckDatabaseIntegrity(nil)
		assert.False(t, status.Healthy)
		assert.True(t, status.Corrupted)
	})

	t.Run("healthy_database", func(t *testing.T) {
		status := CheckDatabaseIntegrity(setupTestDB(t))
		assert.True(t, status.Healthy)
		assert.False(t, status.Corrupted)
	})
}

func TestIsDatabaseCorrupted(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"regular", fmt.Errorf("some error"), false},
		{"sentinel", fmt.Errorf("open: %w", errors.ErrDatabaseCorrupted), true},
		{"checksum", fmt.Errorf("Checksum mismatch detected"), true},
		{"corrupt", fmt.Errorf("data corrupt"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDatabaseCorrupted(tt.err))
		})
	}
}

func TestQuarantine(t *testing.T) {
	t.Run("empty_path", func(t *testing.T) {
		_, err := Quarantine("", time.Now())
		assert.Error(t, err)
	})

	t.Run("moves_directory", func(t *testing.T) {
		dir := t.TempDir()
		state := filepath.Join(dir, "state")
		require.NoError(t, os.MkdirAll(state, 0700))

		now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
		dest, err := Quarantine(state, now)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "state-corrupt-20240305-100000"), dest)

		_, err = os.Stat(state)
		assert.True(t, os.IsNotExist(err))
	})
}
