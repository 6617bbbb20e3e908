package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authsession/pkg/logger"
)

// Manager orchestrates the session life-cycle for one session domain.
// It holds no mutable state after construction and is safe for concurrent use.
type Manager[C any] struct {
	store        Store[C]
	transport    Transport
	validity     time.Duration
	logger       *slog.Logger
	now          func() time.Time
	errorHandler ErrorHandler
}

// NewManager creates a session manager over the given store and transport.
func NewManager[C any](store Store[C], transport Transport, opts ...Option) *Manager[C] {
	// Fail fast on misconfiguration
	if store == nil {
		panic(ErrNoStore)
	}
	if transport == nil {
		panic(ErrNoTransport)
	}

	o := &options{
		validity:     DefaultConfig().Validity,
		logger:       logger.Discard(),
		now:          time.Now,
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Manager[C]{
		store:        store,
		transport:    transport,
		validity:     o.validity,
		logger:       o.logger.With(logger.Component("session")),
		now:          o.now,
		errorHandler: o.errorHandler,
	}
}

// Validity returns the extension applied on every resolution.
func (m *Manager[C]) Validity() time.Duration {
	return m.validity
}

// Resolve extracts the identifier from r and atomically extends the matching
// session. It returns ErrNotPresented, ErrNotFound, ErrUserInactive or an
// error wrapping ErrStoreFailure.
func (m *Manager[C]) Resolve(ctx context.Context, r *http.Request) (*Session[C], error) {
	raw, ok := m.transport.Extract(r)
	if !ok {
		return nil, ErrNotPresented
	}

	// Malformed ids are reported exactly like absent ones
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrNotPresented
	}

	now := m.now()
	sess, err := m.store.RefreshValidity(ctx, id, now.Add(m.validity), now)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		m.logger.ErrorContext(ctx, "session refresh failed", logger.SessionID(id), logger.Error(err))
		return nil, errors.Join(ErrStoreFailure, err)
	}

	// The store filters on active already; checked again for stores that cannot
	if !sess.Active {
		return nil, ErrUserInactive
	}

	return sess, nil
}

// Use resolves the request session and hands it to fn. When fn returns,
// fails, panics or its context is cancelled, a session marked deleted is
// removed from the store before Use returns.
func (m *Manager[C]) Use(ctx context.Context, r *http.Request, fn func(ctx context.Context, sess *Session[C]) error) (err error) {
	sess, err := m.Resolve(ctx, r)
	if err != nil {
		return err
	}

	defer func() {
		if rerr := m.release(ctx, sess); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()

	return fn(WithSession(ctx, sess), sess)
}

// release runs the scope-exit action for a resolved session.
func (m *Manager[C]) release(ctx context.Context, sess *Session[C]) error {
	if !sess.IsDeleted() {
		return nil
	}

	// Detached from cancellation so a dropped request still removes the record
	ctx = context.WithoutCancel(ctx)
	existed, err := m.store.DeleteByID(ctx, sess.ID)
	if err != nil {
		m.logger.ErrorContext(ctx, "session delete failed", logger.SessionID(sess.ID), logger.Error(err))
		return errors.Join(ErrStoreFailure, err)
	}
	m.logger.DebugContext(ctx, "session deleted", logger.SessionID(sess.ID), slog.Bool("existed", existed))
	return nil
}

// StoreNew persists a session created with New.
func (m *Manager[C]) StoreNew(ctx context.Context, sess *Session[C]) error {
	if sess == nil || sess.State() != StateNew {
		return ErrInvalidSession
	}

	if _, err := m.store.Insert(ctx, sess); err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return ErrDuplicateID
		}
		return errors.Join(ErrStoreFailure, err)
	}

	sess.markStored()
	return nil
}

// AnnotateResponse attaches the session identifier to the response.
func (m *Manager[C]) AnnotateResponse(w http.ResponseWriter, sess *Session[C]) {
	if sess == nil {
		return
	}
	m.transport.Attach(w, sess.ID)
}

// ClearResponse removes the session identifier from the client.
func (m *Manager[C]) ClearResponse(w http.ResponseWriter) {
	m.transport.Detach(w)
}

// Login creates and stores an active session for container and attaches it
// to the response.
func (m *Manager[C]) Login(ctx context.Context, w http.ResponseWriter, container C) (*Session[C], error) {
	sess, err := newSession(container, m.now().Add(m.validity), true)
	if err != nil {
		return nil, err
	}

	if err := m.StoreNew(ctx, sess); err != nil {
		return nil, err
	}

	m.AnnotateResponse(w, sess)
	m.logger.DebugContext(ctx, "session created", logger.SessionID(sess.ID))
	return sess, nil
}

// Logout marks sess deleted and clears it from the response. The record is
// removed when the enclosing Use scope exits.
func (m *Manager[C]) Logout(w http.ResponseWriter, sess *Session[C]) {
	sess.Delete()
	m.ClearResponse(w)
}
