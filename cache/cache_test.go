package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Code   string `json:"code"`
	Events []int  `json:"events"`
}

func TestSaveLoad(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0, "v1")
	require.NoError(t, err)

	require.True(t, s.Save("report_abc_1", entry{Code: "abc", Events: []int{1, 2}}))

	var got entry
	require.True(t, s.Load("report_abc_1", &got))
	assert.Equal(t, "abc", got.Code)
	assert.Equal(t, []int{1, 2}, got.Events)

	assert.False(t, s.Load("report_abc_2", &got))
}

func TestLoadExpired(t *testing.T) {
	s, err := NewStorage(t.TempDir(), time.Minute, "v1")
	require.NoError(t, err)
	require.True(t, s.Save("k", entry{Code: "x"}))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(s.path(newKey("k")), old, old))

	var got entry
	assert.False(t, s.Load("k", &got))
}

func TestLoadCorrupt(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.path(newKey("k")), []byte("{"), 0600))

	var got entry
	assert.False(t, s.Load("k", &got))
}

func TestLoadWhileSaving(t *testing.T) {
	s, err := NewStorage(t.TempDir(), 0)
	require.NoError(t, err)
	require.True(t, s.Save("k", entry{Code: "x"}))

	h := newKey("k")
	require.True(t, s.lock(h))
	defer s.unlock(h)

	var got entry
	assert.False(t, s.Load("k", &got))
	assert.False(t, s.Save("k", entry{Code: "y"}))
}

func TestSaltChangeEmptiesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "events")

	s, err := NewStorage(dir, 0, "query v1")
	require.NoError(t, err)
	require.True(t, s.Save("k", entry{Code: "x"}))

	s, err = NewStorage(dir, 0, "query v1")
	require.NoError(t, err)
	var got entry
	assert.True(t, s.Load("k", &got), "same salt keeps entries")

	s, err = NewStorage(dir, 0, "query v2")
	require.NoError(t, err)
	assert.False(t, s.Load("k", &got))
}
