package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserContainer is the default session payload identifying the subject.
type UserContainer struct {
	UserID string `json:"user_id" bson:"user_id"`
}

// Session represents a server-side session bound to an opaque identifier.
// A *Session is owned by a single request scope and must not be shared
// between concurrent handlers.
type Session[C any] struct {
	ID        uuid.UUID `json:"id"`
	ValidTill time.Time `json:"valid_till"`
	Token     string    `json:"-"`
	Active    bool      `json:"active"`
	Container C         `json:"container"`

	state State
}

// New creates a session in StateNew with a random ID and companion token.
// The session is not persisted until Manager.StoreNew is called.
func New[C any](container C, validity time.Duration, active bool) (*Session[C], error) {
	return newSession(container, time.Now().Add(validity), active)
}

func newSession[C any](container C, validTill time.Time, active bool) (*Session[C], error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	return &Session[C]{
		ID:        uuid.New(),
		ValidTill: validTill,
		Token:     token,
		Active:    active,
		Container: container,
		state:     StateNew,
	}, nil
}

// Restore rebuilds a stored session. Store implementations use it when
// decoding records; the result is always in StateInProgress.
func Restore[C any](id uuid.UUID, validTill time.Time, token string, active bool, container C) *Session[C] {
	return &Session[C]{
		ID:        id,
		ValidTill: validTill,
		Token:     token,
		Active:    active,
		Container: container,
		state:     StateInProgress,
	}
}

// State returns the lifecycle state of the session.
func (s *Session[C]) State() State {
	if s == nil {
		return StateDeleted
	}
	return s.state
}

// Delete marks the session for removal at the end of the owning scope.
func (s *Session[C]) Delete() {
	if s == nil {
		return
	}
	s.state = StateDeleted
}

// IsDeleted reports whether Delete has been called.
func (s *Session[C]) IsDeleted() bool {
	return s.State() == StateDeleted
}

// IsExpired reports whether the validity window has passed at now.
func (s *Session[C]) IsExpired(now time.Time) bool {
	return s == nil || now.After(s.ValidTill)
}

// Usable reports whether the session may be handed to a request handler at now.
func (s *Session[C]) Usable(now time.Time) bool {
	return s != nil && s.Active && !s.IsExpired(now) && !s.IsDeleted()
}

// ValidateToken checks the companion secret presented alongside the ID.
func (s *Session[C]) ValidateToken(token string) error {
	if token == "" {
		return ErrTokenMissing
	}
	if s == nil || subtle.ConstantTimeCompare([]byte(s.Token), []byte(token)) != 1 {
		expected := ""
		if s != nil {
			expected = s.Token
		}
		return &TokenMismatchError{Expected: expected, Actual: token}
	}
	return nil
}

// markStored moves a new session into StateInProgress.
func (s *Session[C]) markStored() {
	if s.state == StateNew {
		s.state = StateInProgress
	}
}

// clone returns a detached copy carrying the same state.
func (s *Session[C]) clone() *Session[C] {
	c := *s
	return &c
}

// generateToken creates a cryptographically secure companion token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
