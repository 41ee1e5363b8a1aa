package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/scoring-api/internal/config"
	"github.com/aanand-mishra/scoring-api/internal/storage"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Engine = "sqlite"
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "kv.db")
	cfg.Storage.RetryAttempts = 1
	cfg.Storage.RetryDelay = time.Millisecond

	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDurableSetGet(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("i:1", []byte(`["books","travel"]`)))

	got, err := s.Get("i:1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["books","travel"]`), got)
}

func TestGetMissingKey(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("i:404")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSetOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set("k", []byte("old")))
	require.NoError(t, s.Set("k", []byte("new")))

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestCacheSetAndGet(t *testing.T) {
	s := newTestStore(t)

	s.CacheSet("uid:abc", []byte("3"), time.Hour)

	got, ok := s.CacheGet("uid:abc")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), got)
}

func TestCacheGetMiss(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.CacheGet("uid:never-written")
	assert.False(t, ok)
}

func TestCacheEntryExpires(t *testing.T) {
	s := newTestStore(t)

	// Already-expired entry must read as a miss.
	s.CacheSet("uid:stale", []byte("3"), -time.Second)

	_, ok := s.CacheGet("uid:stale")
	assert.False(t, ok)
}

func TestCacheSetWithoutTTLDoesNotExpire(t *testing.T) {
	s := newTestStore(t)

	s.CacheSet("uid:pinned", []byte("3"), 0)

	got, ok := s.CacheGet("uid:pinned")
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), got)
}
