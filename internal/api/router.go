// Package api exposes the session lifecycle over HTTP.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/authsession/core"
	"github.com/dmitrymomot/authsession/pkg/clientip"
	"github.com/dmitrymomot/authsession/pkg/environment"
	"github.com/dmitrymomot/authsession/pkg/httpserver"
	"github.com/dmitrymomot/authsession/pkg/logger"
	"github.com/dmitrymomot/authsession/pkg/requestid"
	"github.com/dmitrymomot/authsession/pkg/session"
)

// Deps are the collaborators of the router.
type Deps struct {
	Sessions *session.Manager[session.UserContainer]
	Logger   *slog.Logger
	Env      environment.Environment
	Checks   []httpserver.Check

	// TrustProxy honours forwarding headers when resolving client addresses
	TrustProxy bool
}

// ErrorHandler is the session.ErrorHandler the manager should be built with
// so middleware failures use the API's JSON error envelope.
func ErrorHandler() session.ErrorHandler {
	return sessionErrorHandler
}

// NewRouter builds the HTTP routes:
//
//	POST   /login           create a session
//	GET    /session         describe the current session
//	POST   /session/verify  check the companion token
//	DELETE /session         log out
//	GET    /healthz         liveness
//	GET    /readyz          readiness of the session backend
func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = logger.Discard()
	}
	h := &handlers{sessions: d.Sessions, log: log.With(logger.Component("api"))}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware(d.TrustProxy))
	r.Use(environment.Middleware(d.Env))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = core.JSONError(core.ErrNotFound).Render(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = core.JSONError(core.ErrMethodNotAllowed).Render(w, r)
	})

	r.Get("/healthz", httpserver.HealthCheckHandler(log, 0))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, 5*time.Second, d.Checks...))

	r.Post("/login", h.wrap("login", h.login))

	r.Route("/session", func(r chi.Router) {
		r.Use(d.Sessions.RequireSession)
		r.Get("/", h.wrap("current", h.current))
		r.Post("/verify", h.wrap("verify", h.verify))
		r.Delete("/", h.wrap("logout", h.logout))
	})

	return r
}
