package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	MemoryStore
	failSave   bool
	failDelete bool
}

func (f *failingStore) Save(key, value string) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.MemoryStore.Save(key, value)
}

func (f *failingStore) Delete(key string) error {
	if f.failDelete {
		return errors.New("read-only")
	}
	return f.MemoryStore.Delete(key)
}

func TestSession_SetAndClear(t *testing.T) {
	store := NewMemoryStore()
	s, err := Open(store)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())

	require.NoError(t, s.Set("tok-1"))
	assert.Equal(t, "tok-1", s.Token())
	v, _ := store.Load(TokenKey)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	v, _ = store.Load(TokenKey)
	assert.Empty(t, v)
}

func TestSession_RestoredOnOpen(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(TokenKey, "persisted"))

	s, err := Open(store)
	require.NoError(t, err)
	assert.Equal(t, "persisted", s.Token())
	assert.True(t, s.Authenticated())
}

func TestSession_SetEmptyClears(t *testing.T) {
	s, err := Open(nil)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok"))
	require.NoError(t, s.Set(""))
	assert.False(t, s.Authenticated())
}

func TestSession_ClearSucceedsLocallyWhenStoreFails(t *testing.T) {
	store := &failingStore{MemoryStore: MemoryStore{values: map[string]string{}}}
	s, err := Open(store)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok"))

	store.failDelete = true
	assert.Error(t, s.Clear())
	assert.Empty(t, s.Token())
}

func TestSession_SetReportsPersistFailure(t *testing.T) {
	store := &failingStore{MemoryStore: MemoryStore{values: map[string]string{}}, failSave: true}
	s, err := Open(store)
	require.NoError(t, err)

	assert.Error(t, s.Set("tok"))
	assert.Equal(t, "tok", s.Token())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "session.json")
	store := NewFileStore(path)

	v, err := store.Load(TokenKey)
	require.NoError(t, err)
	assert.Empty(t, v)

	s, err := Open(store)
	require.NoError(t, err)
	require.NoError(t, s.Set("tok-abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var values map[string]string
	require.NoError(t, json.Unmarshal(data, &values))
	assert.Equal(t, "tok-abc", values[TokenKey])

	reopened, err := Open(NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", reopened.Token())

	require.NoError(t, reopened.Clear())
	again, err := Open(NewFileStore(path))
	require.NoError(t, err)
	assert.Empty(t, again.Token())
}

func TestFileStore_KeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save("other", "x"))
	require.NoError(t, store.Save(TokenKey, "tok"))
	require.NoError(t, store.Delete(TokenKey))

	v, err := store.Load("other")
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := Open(NewFileStore(path))
	assert.Error(t, err)
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	s, err := Open(NewFileStore(path))
	require.NoError(t, err)
	assert.Empty(t, s.Token())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	t.Setenv("HOME", "/tmp/home-test")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "session.json", filepath.Base(path))
	assert.Equal(t, "resume-builder", filepath.Base(filepath.Dir(path)))
}
