// Package storetest holds the behaviour every session.Store implementation
// must satisfy. Backends call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authsession/pkg/session"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) session.Store[session.UserContainer]

// Precision is the coarsest timestamp resolution among supported backends.
const Precision = time.Millisecond

// Run executes the store contract against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("insert and find", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, time.Hour, true)

		id, err := store.Insert(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, id)

		got, err := store.FindByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
		assert.Equal(t, sess.Token, got.Token)
		assert.True(t, got.Active)
		assert.Equal(t, "user-1", got.Container.UserID)
		assert.WithinDuration(t, sess.ValidTill, got.ValidTill, Precision)
		assert.Equal(t, session.StateInProgress, got.State())
	})

	t.Run("insert duplicate id", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, time.Hour, true)

		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		dup := *sess
		dup.Container = session.UserContainer{UserID: "intruder"}
		_, err = store.Insert(ctx, &dup)
		assert.ErrorIs(t, err, session.ErrDuplicateID)

		got, err := store.FindByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.Container.UserID, "existing record must not be overwritten")
	})

	t.Run("find missing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, time.Hour, true)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		existed, err := store.DeleteByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = store.DeleteByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.False(t, existed)

		_, err = store.FindByID(ctx, sess.ID)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("refresh extends active session", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, 10*time.Second, true)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		now := time.Now()
		target := now.Add(time.Hour).Truncate(Precision)
		got, err := store.RefreshValidity(ctx, sess.ID, target, now)
		require.NoError(t, err)
		assert.WithinDuration(t, target, got.ValidTill, Precision)
		assert.True(t, got.ValidTill.After(sess.ValidTill))
		assert.True(t, got.Active)

		stored, err := store.FindByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, target, stored.ValidTill, Precision)
	})

	t.Run("refresh never moves validity backwards", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, 2*time.Hour, true)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		now := time.Now()
		got, err := store.RefreshValidity(ctx, sess.ID, now.Add(time.Minute), now)
		require.NoError(t, err)
		assert.WithinDuration(t, sess.ValidTill, got.ValidTill, Precision)
	})

	t.Run("refresh rejects inactive session", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, time.Hour, false)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		now := time.Now()
		_, err = store.RefreshValidity(ctx, sess.ID, now.Add(2*time.Hour), now)
		assert.ErrorIs(t, err, session.ErrNotFound)

		stored, err := store.FindByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, sess.ValidTill, stored.ValidTill, Precision, "inactive record must not be modified")
	})

	t.Run("refresh rejects expired session", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, -time.Second, true)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		now := time.Now()
		_, err = store.RefreshValidity(ctx, sess.ID, now.Add(time.Hour), now)
		assert.ErrorIs(t, err, session.ErrNotFound)

		stored, err := store.FindByID(ctx, sess.ID)
		if err == nil {
			assert.WithinDuration(t, sess.ValidTill, stored.ValidTill, Precision, "expired record must not be modified")
		} else {
			assert.ErrorIs(t, err, session.ErrNotFound)
		}
	})

	t.Run("refresh missing session", func(t *testing.T) {
		store := newStore(t)
		now := time.Now()
		_, err := store.RefreshValidity(context.Background(), uuid.New(), now.Add(time.Hour), now)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("concurrent refresh keeps the maximum", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		sess := newSession(t, time.Minute, true)
		_, err := store.Insert(ctx, sess)
		require.NoError(t, err)

		const n = 32
		base := time.Now().Truncate(Precision)
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			errs []error
		)
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				target := base.Add(time.Hour + time.Duration(i)*time.Second)
				got, err := store.RefreshValidity(ctx, sess.ID, target, time.Now())
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs = append(errs, err)
					return
				}
				if got.ValidTill.Before(target.Add(-Precision)) {
					errs = append(errs, fmt.Errorf("refresh %d returned %s, before its own target %s", i, got.ValidTill, target))
				}
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			assert.NoError(t, err)
		}

		stored, err := store.FindByID(ctx, sess.ID)
		require.NoError(t, err)
		assert.WithinDuration(t, base.Add(time.Hour+(n-1)*time.Second), stored.ValidTill, Precision)
	})
}

func newSession(t *testing.T, validity time.Duration, active bool) *session.Session[session.UserContainer] {
	t.Helper()
	sess, err := session.New(session.UserContainer{UserID: "user-1"}, validity, active)
	require.NoError(t, err)
	sess.ValidTill = sess.ValidTill.Truncate(Precision)
	return sess
}
