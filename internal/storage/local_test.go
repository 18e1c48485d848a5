package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFile_SetGetSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "local.json")

	f, err := OpenFile(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, f.Set(KeySubmitterEmail, "user@example.com"))
	require.NoError(t, f.Set("sample", sample{Name: "a", Count: 2}))

	reopened, err := OpenFile(path, zap.NewNop())
	require.NoError(t, err)

	var email string
	require.NoError(t, reopened.Get(KeySubmitterEmail, &email))
	assert.Equal(t, "user@example.com", email)

	var s sample
	require.NoError(t, reopened.Get("sample", &s))
	assert.Equal(t, sample{Name: "a", Count: 2}, s)
}

func TestFile_MissingKey(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "local.json"), zap.NewNop())
	require.NoError(t, err)

	var s string
	assert.ErrorIs(t, f.Get("nope", &s), ErrNotFound)
	assert.NoError(t, f.Delete("nope"))
}

func TestFile_Delete(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "local.json"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, f.Set(KeySession, map[string]string{"token": "x"}))
	require.NoError(t, f.Delete(KeySession))

	var v map[string]string
	assert.ErrorIs(t, f.Get(KeySession, &v), ErrNotFound)
}

func TestFile_CorruptDocumentStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	f, err := OpenFile(path, zap.NewNop())
	require.NoError(t, err)

	var s string
	assert.ErrorIs(t, f.Get(KeySubmitterEmail, &s), ErrNotFound)
}

func TestFile_CorruptValueIsDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"count":"not a number"}`), 0o600))

	f, err := OpenFile(path, zap.NewNop())
	require.NoError(t, err)

	var n int
	assert.ErrorIs(t, f.Get("count", &n), ErrNotFound)
	assert.ErrorIs(t, f.Get("count", &n), ErrNotFound)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set("k", 42))

	var n int
	require.NoError(t, m.Get("k", &n))
	assert.Equal(t, 42, n)

	require.NoError(t, m.Delete("k"))
	assert.ErrorIs(t, m.Get("k", &n), ErrNotFound)
}
