package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ummabot/pkg/logx"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	st, err := Open(Config{Path: filepath.Join(t.TempDir(), "bot.db")}, logx.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestUsersLifecycle(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	known, err := st.IsKnown(ctx, 7)
	require.NoError(t, err)
	assert.False(t, known)

	require.NoError(t, st.AddUser(ctx, 7))
	require.NoError(t, st.AddUser(ctx, 7)) // idempotent
	require.NoError(t, st.AddUser(ctx, 3))

	known, err = st.IsKnown(ctx, 7)
	require.NoError(t, err)
	assert.True(t, known)

	ids, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)

	// fresh users are not subscribed
	subs, err := st.ListSubscribed(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestToggleMailing(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.AddUser(ctx, 7))

	on, err := st.ToggleMailing(ctx, 7)
	require.NoError(t, err)
	assert.True(t, on)

	subs, err := st.ListSubscribed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, subs)

	off, err := st.ToggleMailing(ctx, 7)
	require.NoError(t, err)
	assert.False(t, off)

	subs, err = st.ListSubscribed(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestPostedDuas(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	posted, err := st.PostedDuas(ctx)
	require.NoError(t, err)
	assert.Empty(t, posted)

	require.NoError(t, st.RecordPostedDua(ctx, "https://umma.ru/dua-one"))
	require.NoError(t, st.RecordPostedDua(ctx, "https://umma.ru/dua-one")) // idempotent
	require.NoError(t, st.RecordPostedDua(ctx, "https://umma.ru/dua-two"))
	assert.Error(t, st.RecordPostedDua(ctx, "  "))

	posted, err = st.PostedDuas(ctx)
	require.NoError(t, err)
	assert.Len(t, posted, 2)
	_, ok := posted["https://umma.ru/dua-one"]
	assert.True(t, ok)
}
