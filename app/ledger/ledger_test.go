package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nuclight.org/unicode-detector-bot/app/storage"
	e "nuclight.org/unicode-detector-bot/pkg/entities"
)

func TestLedgerFlags(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	l := New(storage.NewMemory())

	flagged, err := l.IsFlagged(ctx, -100, 1)
	assert.NoError(err)
	assert.False(flagged)

	assert.NoError(l.SetFlagged(ctx, -100, 1))
	assert.NoError(l.SetFlagged(ctx, -100, 1))

	flagged, err = l.IsFlagged(ctx, -100, 1)
	assert.NoError(err)
	assert.True(flagged)

	// scoped by chat
	flagged, err = l.IsFlagged(ctx, -200, 1)
	assert.NoError(err)
	assert.False(flagged)

	existed, err := l.ClearFlagged(ctx, -100, 1)
	assert.NoError(err)
	assert.True(existed)

	existed, err = l.ClearFlagged(ctx, -100, 1)
	assert.NoError(err)
	assert.False(existed)

	flagged, err = l.IsFlagged(ctx, -100, 1)
	assert.NoError(err)
	assert.False(flagged)
}

func TestLedgerKeysMatchDeployedLayout(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	l := New(store)

	require.NoError(t, l.SetFlagged(ctx, -1001, 77))
	require.NoError(t, l.SetSetting(ctx, -1001, e.SettingOff))

	in, err := store.IsMember(ctx, "User_-1001", "77")
	require.NoError(t, err)
	assert.True(t, in)

	v, ok, err := store.Get(ctx, "Chat_-1001")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "False", v)
}

func TestLedgerSetting(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := storage.NewMemory()
	l := New(store)

	s, err := l.Setting(ctx, -100)
	assert.NoError(err)
	assert.Equal(e.SettingUnset, s)

	assert.NoError(l.SetSetting(ctx, -100, e.SettingOn))
	s, err = l.Setting(ctx, -100)
	assert.NoError(err)
	assert.Equal(e.SettingOn, s)

	assert.NoError(l.SetSetting(ctx, -100, e.SettingOff))
	s, err = l.Setting(ctx, -100)
	assert.NoError(err)
	assert.Equal(e.SettingOff, s)

	err = l.SetSetting(ctx, -100, e.SettingUnset)
	assert.ErrorIs(err, ErrInvalidSetting)

	assert.NoError(store.Set(ctx, "Chat_-300", "garbage"))
	s, err = l.Setting(ctx, -300)
	assert.NoError(err)
	assert.Equal(e.SettingUnset, s)
}

type failingStore struct{}

var errDown = errors.New("connection refused")

func (failingStore) Get(context.Context, string) (string, bool, error) { return "", false, errDown }
func (failingStore) IsMember(context.Context, string, string) (bool, error) {
	return false, errDown
}
func (failingStore) AddToSet(context.Context, string, string) error { return errDown }
func (failingStore) RemoveFromSet(context.Context, string, string) (bool, error) {
	return false, errDown
}
func (failingStore) Set(context.Context, string, string) error { return errDown }

func TestLedgerPropagatesStoreErrors(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	l := New(&failingStore{})

	_, err := l.IsFlagged(ctx, 1, 2)
	assert.ErrorIs(err, errDown)

	assert.ErrorIs(l.SetFlagged(ctx, 1, 2), errDown)

	_, err = l.ClearFlagged(ctx, 1, 2)
	assert.ErrorIs(err, errDown)

	_, err = l.Setting(ctx, 1)
	assert.ErrorIs(err, errDown)

	assert.ErrorIs(l.SetSetting(ctx, 1, e.SettingOn), errDown)
}
