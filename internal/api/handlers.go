package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authsession/core"
	"github.com/dmitrymomot/authsession/pkg/logger"
	"github.com/dmitrymomot/authsession/pkg/session"
)

const maxUserIDLength = 128

type loginRequest struct {
	UserID string `json:"user_id"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	ValidTill time.Time `json:"valid_till"`
	// Token is only returned once, on login
	Token string `json:"token,omitempty"`
}

type handlers struct {
	sessions *session.Manager[session.UserContainer]
	log      *slog.Logger
}

// wrap renders the Response returned by fn; render failures are only logged
// because the status line is already written.
func (h *handlers) wrap(name string, fn func(w http.ResponseWriter, r *http.Request) core.Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(w, r)
		if resp == nil {
			return
		}
		if err := resp.Render(w, r); err != nil {
			h.log.ErrorContext(r.Context(), "render failed", logger.Handler(name), logger.Error(err))
		}
	}
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) core.Response {
	var req loginRequest
	if err := bindJSON(w, r, &req); err != nil {
		return core.JSONError(err)
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" || len(req.UserID) > maxUserIDLength {
		return core.JSONError(fmt.Errorf("%w: user_id is required", core.ErrUnprocessableEntity))
	}

	sess, err := h.sessions.Login(r.Context(), w, session.UserContainer{UserID: req.UserID})
	if err != nil {
		h.log.ErrorContext(r.Context(), "login failed", logger.UserID(req.UserID), logger.Error(err))
		return core.JSONError(err)
	}

	h.log.InfoContext(r.Context(), "session created", logger.UserID(req.UserID), logger.SessionID(sess.ID))
	return core.JSON(http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		UserID:    sess.Container.UserID,
		ValidTill: sess.ValidTill,
		Token:     sess.Token,
	})
}

func (h *handlers) current(_ http.ResponseWriter, r *http.Request) core.Response {
	sess := session.MustFromContext[session.UserContainer](r.Context())
	return core.JSON(http.StatusOK, sessionResponse{
		ID:        sess.ID,
		UserID:    sess.Container.UserID,
		ValidTill: sess.ValidTill,
	})
}

func (h *handlers) verify(w http.ResponseWriter, r *http.Request) core.Response {
	var req verifyRequest
	if err := bindJSON(w, r, &req); err != nil {
		return core.JSONError(err)
	}

	sess := session.MustFromContext[session.UserContainer](r.Context())
	if err := sess.ValidateToken(req.Token); err != nil {
		h.log.WarnContext(r.Context(), "session assertion failed", logger.SessionID(sess.ID), logger.Reason(err.Error()))
		return core.JSONError(core.ErrUnauthorized)
	}
	return core.NoContent()
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) core.Response {
	sess := session.MustFromContext[session.UserContainer](r.Context())
	h.sessions.Logout(w, sess)
	h.log.InfoContext(r.Context(), "session closed", logger.SessionID(sess.ID))
	return core.NoContent()
}

// sessionErrorHandler answers every session failure with the same 401 body;
// the distinct reason has already been logged by the manager.
func sessionErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if session.IsUnauthorized(err) {
		_ = core.JSONError(core.ErrUnauthorized).Render(w, r)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	_ = core.JSONError(errors.Join(core.ErrInternalServerError, err)).Render(w, r)
}
