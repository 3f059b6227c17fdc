package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	AddToSet(ctx context.Context, key, member string) error
	RemoveFromSet(ctx context.Context, key, member string) (bool, error)
	IsMember(ctx context.Context, key, member string) (bool, error)
	Close() error
}

func testStoreBasics(t *testing.T, s store) {
	assert := assert.New(t)
	ctx := context.Background()

	assert.NoError(s.Ping(ctx))

	_, ok, err := s.Get(ctx, "test_key")
	assert.NoError(err)
	assert.False(ok)

	assert.NoError(s.Set(ctx, "test_key", "True"))
	assert.NoError(s.Set(ctx, "test_key", "False"))
	v, ok, err := s.Get(ctx, "test_key")
	assert.NoError(err)
	assert.True(ok)
	assert.Equal("False", v)

	in, err := s.IsMember(ctx, "test_set", "1")
	assert.NoError(err)
	assert.False(in)

	assert.NoError(s.AddToSet(ctx, "test_set", "1"))
	assert.NoError(s.AddToSet(ctx, "test_set", "1"))
	assert.NoError(s.AddToSet(ctx, "test_set", "2"))

	in, err = s.IsMember(ctx, "test_set", "1")
	assert.NoError(err)
	assert.True(in)

	in, err = s.IsMember(ctx, "other_set", "1")
	assert.NoError(err)
	assert.False(in)

	removed, err := s.RemoveFromSet(ctx, "test_set", "1")
	assert.NoError(err)
	assert.True(removed)

	removed, err = s.RemoveFromSet(ctx, "test_set", "1")
	assert.NoError(err)
	assert.False(removed)

	removed, err = s.RemoveFromSet(ctx, "missing_set", "1")
	assert.NoError(err)
	assert.False(removed)

	in, err = s.IsMember(ctx, "test_set", "2")
	assert.NoError(err)
	assert.True(in)

	removed, err = s.RemoveFromSet(ctx, "test_set", "2")
	assert.NoError(err)
	assert.True(removed)
}

func TestMemoryStoreBasics(t *testing.T) {
	s := NewMemory()
	defer func() { _ = s.Close() }()

	testStoreBasics(t, s)
}

func TestSQLiteStoreBasics(t *testing.T) {
	ctx := context.Background()

	s, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "detector.sqlite"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	testStoreBasics(t, s)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "detector.sqlite")

	s, err := NewSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.AddToSet(ctx, "User_-100", "42"))
	require.NoError(t, s.Set(ctx, "Chat_-100", "False"))
	require.NoError(t, s.Close())

	s, err = NewSQLite(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	in, err := s.IsMember(ctx, "User_-100", "42")
	require.NoError(t, err)
	assert.True(t, in)

	v, ok, err := s.Get(ctx, "Chat_-100")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "False", v)
}

func TestRedisStoreBasics(t *testing.T) {
	redisURL := os.Getenv("REDIS_TEST_URL")
	if redisURL == "" {
		t.Skip("live test, set REDIS_TEST_URL to a disposable redis database")
	}

	ctx := context.Background()

	s, err := NewRedis(ctx, redisURL)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Client.Del(ctx, "test_key", "test_set").Err())

	testStoreBasics(t, s)
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
