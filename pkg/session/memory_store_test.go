package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authsession/pkg/session"
	"github.com/dmitrymomot/authsession/pkg/session/storetest"
)

var (
	_ session.Store[session.UserContainer] = (*session.MemoryStore[session.UserContainer])(nil)
	_ session.ActiveSetter                 = (*session.MemoryStore[session.UserContainer])(nil)
)

func TestMemoryStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) session.Store[session.UserContainer] {
		store := session.NewMemoryStore[session.UserContainer](0)
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := session.NewMemoryStore[session.UserContainer](0)
	defer store.Close()
	ctx := context.Background()

	sess, err := session.New(session.UserContainer{UserID: "u1"}, time.Hour, true)
	require.NoError(t, err)
	_, err = store.Insert(ctx, sess)
	require.NoError(t, err)

	// Mutating the caller's copy must not leak into the store
	sess.Active = false
	sess.Delete()

	got, err := store.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, session.StateInProgress, got.State())

	got.ValidTill = time.Time{}
	again, err := store.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, again.ValidTill.IsZero())
}

func TestMemoryStore_InsertInvalid(t *testing.T) {
	store := session.NewMemoryStore[session.UserContainer](0)
	defer store.Close()

	_, err := store.Insert(context.Background(), nil)
	assert.ErrorIs(t, err, session.ErrInvalidSession)

	_, err = store.Insert(context.Background(), &session.Session[session.UserContainer]{})
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestMemoryStore_SetActive(t *testing.T) {
	store := session.NewMemoryStore[session.UserContainer](0)
	defer store.Close()
	ctx := context.Background()

	sess, err := session.New(session.UserContainer{}, time.Hour, true)
	require.NoError(t, err)
	_, err = store.Insert(ctx, sess)
	require.NoError(t, err)

	require.NoError(t, store.SetActive(ctx, sess.ID, false))
	now := time.Now()
	_, err = store.RefreshValidity(ctx, sess.ID, now.Add(time.Hour), now)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.ErrorIs(t, store.SetActive(ctx, uuid.New(), true), session.ErrNotFound)
}

func TestMemoryStore_RefreshCancelled(t *testing.T) {
	store := session.NewMemoryStore[session.UserContainer](0)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	now := time.Now()
	_, err := store.RefreshValidity(ctx, uuid.New(), now.Add(time.Hour), now)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	store := session.NewMemoryStore[session.UserContainer](0)
	defer store.Close()
	ctx := context.Background()

	live, err := session.New(session.UserContainer{}, time.Hour, true)
	require.NoError(t, err)
	dead, err := session.New(session.UserContainer{}, -time.Minute, true)
	require.NoError(t, err)
	_, err = store.Insert(ctx, live)
	require.NoError(t, err)
	_, err = store.Insert(ctx, dead)
	require.NoError(t, err)

	assert.Equal(t, 1, store.DeleteExpired(ctx, time.Now()))
	assert.Equal(t, 1, store.Len())

	_, err = store.FindByID(ctx, dead.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_CleanupLoop(t *testing.T) {
	store := session.NewMemoryStore[session.UserContainer](10 * time.Millisecond)
	defer store.Close()
	ctx := context.Background()

	dead, err := session.New(session.UserContainer{}, -time.Minute, true)
	require.NoError(t, err)
	_, err = store.Insert(ctx, dead)
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)

	// Close is idempotent
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
