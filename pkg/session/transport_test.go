package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authsession/pkg/cookie"
	"github.com/dmitrymomot/authsession/pkg/session"
)

var (
	_ session.Transport = (*session.CookieTransport)(nil)
	_ session.Transport = (*session.HeaderTransport)(nil)
)

func newStoredSession(t *testing.T) *session.Session[session.UserContainer] {
	t.Helper()
	return session.Restore(uuid.New(), time.Now().Add(time.Hour), "tok", true, session.UserContainer{UserID: "u1"})
}

func TestCookieTransport(t *testing.T) {
	t.Parallel()
	tr := session.NewCookieTransport(nil, "sid_user")
	id := uuid.New()

	t.Run("extract absent", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, ok := tr.Extract(r)
		assert.False(t, ok)
	})

	t.Run("attach then extract", func(t *testing.T) {
		w := httptest.NewRecorder()
		tr.Attach(w, id)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range w.Result().Cookies() {
			r.AddCookie(c)
		}

		got, ok := tr.Extract(r)
		require.True(t, ok)
		assert.Equal(t, id.String(), got)
	})

	t.Run("attach twice keeps one directive", func(t *testing.T) {
		w := httptest.NewRecorder()
		tr.Attach(w, uuid.New())
		tr.Attach(w, id)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, id.String(), cookies[0].Value)
	})

	t.Run("detach", func(t *testing.T) {
		w := httptest.NewRecorder()
		tr.Attach(w, id)
		tr.Detach(w)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "sid_user", cookies[0].Name)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("other domains are independent", func(t *testing.T) {
		admin := session.NewCookieTransport(nil, "sid_admin")
		w := httptest.NewRecorder()
		tr.Attach(w, id)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range w.Result().Cookies() {
			r.AddCookie(c)
		}
		_, ok := admin.Extract(r)
		assert.False(t, ok)
	})
}

func TestCookieTransport_DetachMatchesAttach(t *testing.T) {
	t.Parallel()

	mgr := cookie.NewFromConfig(cookie.Config{Path: "/app", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	cfg := session.DefaultConfig()
	cfg.CookieSameSite = "strict"
	tr, err := session.NewTransport(cfg, mgr)
	require.NoError(t, err)

	attached := httptest.NewRecorder()
	tr.Attach(attached, uuid.New())
	detached := httptest.NewRecorder()
	tr.Detach(detached)

	require.Len(t, attached.Result().Cookies(), 1)
	require.Len(t, detached.Result().Cookies(), 1)
	written := attached.Result().Cookies()[0]
	deleted := detached.Result().Cookies()[0]

	assert.Equal(t, "sid_user", deleted.Name)
	assert.Equal(t, written.Path, deleted.Path)
	assert.Equal(t, written.Domain, deleted.Domain)
	assert.Equal(t, written.Secure, deleted.Secure)
	assert.Equal(t, written.SameSite, deleted.SameSite)
	assert.True(t, deleted.Secure)
	assert.Equal(t, -1, deleted.MaxAge)
	assert.Empty(t, deleted.Value)
}

func TestHeaderTransport(t *testing.T) {
	t.Parallel()
	tr := session.NewSuffixHeaderTransport("user")
	id := uuid.New()

	assert.Equal(t, "X-Session-User", tr.Name())

	t.Run("extract absent", func(t *testing.T) {
		_, ok := tr.Extract(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, ok)
	})

	t.Run("extract blank", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Session-User", "   ")
		_, ok := tr.Extract(r)
		assert.False(t, ok)
	})

	t.Run("extract is case insensitive on the name", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("x-session-user", " "+id.String()+" ")
		got, ok := tr.Extract(r)
		require.True(t, ok)
		assert.Equal(t, id.String(), got)
	})

	t.Run("attach and detach", func(t *testing.T) {
		w := httptest.NewRecorder()
		tr.Attach(w, id)
		assert.Equal(t, id.String(), w.Header().Get("X-Session-User"))

		tr.Detach(w)
		assert.Empty(t, w.Header().Values("X-Session-User"))
	})

	t.Run("detach without attach", func(t *testing.T) {
		w := httptest.NewRecorder()
		assert.NotPanics(t, func() { tr.Detach(w) })
		assert.Empty(t, w.Header())
	})
}

func TestHeaderName(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"user":         "X-Session-User",
		"admin":        "X-Session-Admin",
		"ADMIN":        "X-Session-Admin",
		"back_office":  "X-Session-Back-Office",
		"partner-team": "X-Session-Partner-Team",
	}
	for suffix, want := range tests {
		assert.Equal(t, want, session.HeaderName(suffix), suffix)
	}
}
