package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authsession/pkg/session"
)

func TestNew(t *testing.T) {
	t.Parallel()

	sess, err := session.New(session.UserContainer{UserID: "u1"}, time.Hour, true)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.NotEqual(t, sess.ID.String(), sess.Token)
	assert.True(t, sess.Active)
	assert.Equal(t, "u1", sess.Container.UserID)
	assert.Equal(t, session.StateNew, sess.State())
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ValidTill, time.Second)

	other, err := session.New(session.UserContainer{UserID: "u1"}, time.Hour, true)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, other.ID)
	assert.NotEqual(t, sess.Token, other.Token)
}

func TestRestore(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	validTill := time.Now().Add(time.Minute)
	sess := session.Restore(id, validTill, "tok", false, session.UserContainer{UserID: "u2"})

	assert.Equal(t, id, sess.ID)
	assert.Equal(t, validTill, sess.ValidTill)
	assert.False(t, sess.Active)
	assert.Equal(t, session.StateInProgress, sess.State())
}

func TestSession_Delete(t *testing.T) {
	t.Parallel()

	sess := session.Restore(uuid.New(), time.Now().Add(time.Hour), "tok", true, session.UserContainer{})
	assert.False(t, sess.IsDeleted())
	assert.True(t, sess.Usable(time.Now()))

	sess.Delete()
	assert.True(t, sess.IsDeleted())
	assert.Equal(t, session.StateDeleted, sess.State())
	assert.False(t, sess.Usable(time.Now()))

	// terminal state
	sess.Delete()
	assert.Equal(t, session.StateDeleted, sess.State())

	var nilSess *session.Session[session.UserContainer]
	assert.NotPanics(t, nilSess.Delete)
	assert.True(t, nilSess.IsDeleted())
}

func TestSession_Usable(t *testing.T) {
	t.Parallel()
	now := time.Now()

	tests := []struct {
		name      string
		validTill time.Time
		active    bool
		want      bool
	}{
		{"active and valid", now.Add(time.Second), true, true},
		{"valid till exactly now", now, true, true},
		{"expired", now.Add(-time.Second), true, false},
		{"inactive", now.Add(time.Hour), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.Restore(uuid.New(), tt.validTill, "tok", tt.active, session.UserContainer{})
			assert.Equal(t, tt.want, sess.Usable(now))
		})
	}
}

func TestSession_ValidateToken(t *testing.T) {
	t.Parallel()

	sess := session.Restore(uuid.New(), time.Now().Add(time.Hour), "secret-token", true, session.UserContainer{})

	assert.NoError(t, sess.ValidateToken("secret-token"))
	assert.ErrorIs(t, sess.ValidateToken(""), session.ErrTokenMissing)

	err := sess.ValidateToken("wrong")
	require.ErrorIs(t, err, session.ErrTokenInvalid)

	var mismatch *session.TokenMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "secret-token", mismatch.Expected)
	assert.Equal(t, "wrong", mismatch.Actual)
	assert.NotContains(t, err.Error(), "secret-token")
	assert.True(t, session.IsUnauthorized(err))
}

func TestState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "new", session.StateNew.String())
	assert.Equal(t, "in_progress", session.StateInProgress.String())
	assert.Equal(t, "deleted", session.StateDeleted.String())
	assert.Equal(t, "unknown", session.State(42).String())
}

func TestIsUnauthorized(t *testing.T) {
	t.Parallel()
	assert.True(t, session.IsUnauthorized(session.ErrNotPresented))
	assert.True(t, session.IsUnauthorized(session.ErrNotFound))
	assert.True(t, session.IsUnauthorized(session.ErrUserInactive))
	assert.True(t, session.IsUnauthorized(session.ErrTokenMissing))
	assert.False(t, session.IsUnauthorized(session.ErrStoreFailure))
	assert.False(t, session.IsUnauthorized(nil))
}

func TestContext(t *testing.T) {
	t.Parallel()

	sess := session.Restore(uuid.New(), time.Now().Add(time.Hour), "tok", true, session.UserContainer{UserID: "u9"})
	ctx := session.WithSession(context.Background(), sess)

	got, ok := session.FromContext[session.UserContainer](ctx)
	require.True(t, ok)
	assert.Same(t, sess, got)

	userID, ok := session.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u9", userID)

	_, ok = session.FromContext[string](ctx)
	assert.False(t, ok, "container type must match")

	_, ok = session.FromContext[session.UserContainer](context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { session.MustFromContext[session.UserContainer](context.Background()) })
}
