package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authsession/core"
	"github.com/dmitrymomot/authsession/internal/api"
	"github.com/dmitrymomot/authsession/pkg/cookie"
	"github.com/dmitrymomot/authsession/pkg/environment"
	"github.com/dmitrymomot/authsession/pkg/httpserver"
	"github.com/dmitrymomot/authsession/pkg/session"
)

const cookieName = "sid_user"

type loginBody struct {
	Data struct {
		ID        uuid.UUID `json:"id"`
		UserID    string    `json:"user_id"`
		ValidTill time.Time `json:"valid_till"`
		Token     string    `json:"token"`
	} `json:"data"`
	Error *core.ErrorDetail `json:"error"`
}

type fixture struct {
	handler http.Handler
	store   *session.MemoryStore[session.UserContainer]
}

func newFixture(t *testing.T, checks ...httpserver.Check) *fixture {
	t.Helper()

	store := session.NewMemoryStore[session.UserContainer](0)
	t.Cleanup(func() { _ = store.Close() })

	transport := session.NewCookieTransport(cookie.New(), cookieName, cookie.WithMaxAge(3600))
	mgr := session.NewManager[session.UserContainer](store, transport,
		session.WithValidity(time.Hour),
		session.WithErrorHandler(api.ErrorHandler()),
	)

	return &fixture{
		handler: api.NewRouter(api.Deps{
			Sessions: mgr,
			Env:      environment.Production,
			Checks:   checks,
		}),
		store: store,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string, c *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if c != nil {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T, userID string) (loginBody, *http.Cookie) {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/login", `{"user_id":"`+userID+`"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body loginBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	var sid *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			sid = c
		}
	}
	require.NotNil(t, sid, "login must set the session cookie")
	return body, sid
}

func TestLogin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	body, sid := f.login(t, "user-42")

	assert.Equal(t, "user-42", body.Data.UserID)
	assert.NotEmpty(t, body.Data.Token)
	assert.Equal(t, body.Data.ID.String(), sid.Value)
	assert.True(t, sid.HttpOnly)
	assert.Equal(t, 1, f.store.Len())

	stored, err := f.store.FindByID(context.Background(), body.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-42", stored.Container.UserID)
	assert.True(t, stored.Active)
}

func TestLogin_InvalidBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
	}{
		{"malformed json", `{"user_id":`, "application/json", http.StatusBadRequest},
		{"unknown field", `{"user_id":"a","admin":true}`, "application/json", http.StatusBadRequest},
		{"trailing data", `{"user_id":"a"}{"user_id":"b"}`, "application/json", http.StatusBadRequest},
		{"empty body", ``, "application/json", http.StatusBadRequest},
		{"wrong content type", `{"user_id":"a"}`, "text/plain", http.StatusUnsupportedMediaType},
		{"blank user", `{"user_id":"   "}`, "application/json", http.StatusUnprocessableEntity},
		{"user too long", `{"user_id":"` + strings.Repeat("x", 200) + `"}`, "application/json", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 0, f.store.Len())
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestCurrentSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	login, sid := f.login(t, "user-1")

	rec := f.do(t, http.MethodGet, "/session", "", sid)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body loginBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, login.Data.ID, body.Data.ID)
	assert.Equal(t, "user-1", body.Data.UserID)
	assert.Empty(t, body.Data.Token, "token is only returned on login")
	assert.False(t, body.Data.ValidTill.Before(login.Data.ValidTill))
}

func TestCurrentSession_Unauthorized(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, sid := f.login(t, "disabled")
	require.NoError(t, f.store.SetActive(context.Background(), uuid.MustParse(sid.Value), false))

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"absent", nil},
		{"malformed", &http.Cookie{Name: cookieName, Value: "not-a-uuid"}},
		{"unknown", &http.Cookie{Name: cookieName, Value: uuid.NewString()}},
		{"inactive", sid},
	}

	var bodies []string
	for _, tt := range tests {
		rec := f.do(t, http.MethodGet, "/session", "", tt.cookie)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tt.name)
		bodies = append(bodies, rec.Body.String())
	}

	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i], "unauthorized responses must not reveal the reason")
	}
	assert.Contains(t, bodies[0], `"code":"unauthorized"`)
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	login, sid := f.login(t, "user-1")

	rec := f.do(t, http.MethodPost, "/session/verify", `{"token":"`+login.Data.Token+`"}`, sid)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPost, "/session/verify", `{"token":"forged"}`, sid)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, sid := f.login(t, "user-1")

	rec := f.do(t, http.MethodDelete, "/session", "", sid)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, f.store.Len(), "record is removed when the request scope exits")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)

	rec = f.do(t, http.MethodGet, "/session", "", sid)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ready := true
	f := newFixture(t, httpserver.Check{Name: "store", Fn: func(context.Context) error {
		if ready {
			return nil
		}
		return errors.New("down")
	}})

	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	ready = false
	rec = f.do(t, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"not_found"`)

	rec = f.do(t, http.MethodGet, "/login", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}
