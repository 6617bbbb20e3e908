package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authsession/core"
	"github.com/dmitrymomot/authsession/pkg/environment"
)

func render(t *testing.T, resp core.Response, env environment.Environment) (*httptest.ResponseRecorder, core.JSONResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(environment.WithContext(r.Context(), env))
	require.NoError(t, resp.Render(w, r))

	var body core.JSONResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestJSON(t *testing.T) {
	t.Parallel()

	w, body := render(t, core.JSON(http.StatusCreated, map[string]string{"id": "1"}), environment.Production)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Nil(t, body.Error)
	assert.Equal(t, map[string]any{"id": "1"}, body.Data)
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	t.Run("http error", func(t *testing.T) {
		w, body := render(t, core.JSONError(core.ErrUnauthorized), environment.Production)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, body.Error)
		assert.Equal(t, "unauthorized", body.Error.Code)
		assert.Equal(t, "Unauthorized", body.Error.Message)
	})

	t.Run("wrapped http error", func(t *testing.T) {
		err := fmt.Errorf("login: %w", core.ErrBadRequest)
		w, body := render(t, core.JSONError(err), environment.Production)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", body.Error.Code)
	})

	t.Run("opaque error in production", func(t *testing.T) {
		w, body := render(t, core.JSONError(errors.New("dial tcp 10.0.0.3:6379")), environment.Production)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_server_error", body.Error.Code)
		assert.Empty(t, body.Error.Debug)
		assert.NotContains(t, w.Body.String(), "10.0.0.3")
	})

	t.Run("opaque error in development", func(t *testing.T) {
		_, body := render(t, core.JSONError(errors.New("dial tcp 10.0.0.3:6379")), environment.Development)
		assert.Equal(t, "dial tcp 10.0.0.3:6379", body.Error.Debug)
	})
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	w, _ := render(t, core.NoContent(), environment.Production)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	err := core.NewHTTPError(http.StatusForbidden, "insufficient_permissions")
	assert.Equal(t, "insufficient_permissions", err.Error())
	assert.Equal(t, http.StatusForbidden, err.Code)
}
