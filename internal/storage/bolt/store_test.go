package bolt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), "test.db")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, "users", `[{"email":"a@b.co"}]`))

	value, ok, err := s.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"email":"a@b.co"}]`, value)
}

func TestStore_GetAbsentKey(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	value, ok, err := s.Get(ctx, "cart_nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, "is_logged_in", "true"))
	require.NoError(t, s.Set(ctx, "is_logged_in", "false"))

	value, ok, err := s.Get(ctx, "is_logged_in")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "false", value)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Set(ctx, "is_logged_in", "true"))
	require.NoError(t, s.Delete(ctx, "is_logged_in"))

	_, ok, err := s.Get(ctx, "is_logged_in")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is a no-op
	require.NoError(t, s.Delete(ctx, "is_logged_in"))
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir, "test.db")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "wishlist_u1", `[]`))
	require.NoError(t, s.Close())

	s, err = Open(dir, "test.db")
	require.NoError(t, err)
	defer s.Close()

	value, ok, err := s.Get(ctx, "wishlist_u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value)
}
