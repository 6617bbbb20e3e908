// Package pgstore persists sessions in a PostgreSQL table.
//
// The conditional refresh is one UPDATE ... RETURNING statement, so the
// active/unexpired check and the extension cannot interleave with another
// request.
package pgstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/authsession/pkg/pg"
	"github.com/dmitrymomot/authsession/pkg/session"
)

const (
	insertQuery = `INSERT INTO sessions (id, valid_till, token, active, container)
VALUES ($1, $2, $3, $4, $5)`

	findQuery = `SELECT valid_till, token, active, container
FROM sessions WHERE id = $1`

	refreshQuery = `UPDATE sessions SET valid_till = GREATEST(valid_till, $2)
WHERE id = $1 AND active AND valid_till >= $3
RETURNING valid_till, token, active, container`

	deleteQuery        = `DELETE FROM sessions WHERE id = $1`
	setActiveQuery     = `UPDATE sessions SET active = $2 WHERE id = $1`
	deleteExpiredQuery = `DELETE FROM sessions WHERE valid_till < $1`
)

// DB is the subset of *pgxpool.Pool and pgx.Tx used by Store.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements session.Store on PostgreSQL.
type Store[C any] struct {
	db    DB
	codec session.Codec[C]
}

// New creates a store. The sessions table comes from Migrations.
func New[C any](db DB) *Store[C] {
	return &Store[C]{db: db, codec: session.JSONCodec[C]{}}
}

// NewWithCodec creates a store encoding containers with codec.
func NewWithCodec[C any](db DB, codec session.Codec[C]) *Store[C] {
	s := New[C](db)
	if codec != nil {
		s.codec = codec
	}
	return s
}

func (s *Store[C]) FindByID(ctx context.Context, id uuid.UUID) (*session.Session[C], error) {
	return s.scan(id, s.db.QueryRow(ctx, findQuery, id.String()))
}

func (s *Store[C]) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, deleteQuery, id.String())
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store[C]) RefreshValidity(ctx context.Context, id uuid.UUID, validTill, now time.Time) (*session.Session[C], error) {
	return s.scan(id, s.db.QueryRow(ctx, refreshQuery, id.String(), validTill, now))
}

func (s *Store[C]) Insert(ctx context.Context, sess *session.Session[C]) (uuid.UUID, error) {
	if sess == nil || sess.ID == uuid.Nil {
		return uuid.Nil, session.ErrInvalidSession
	}

	container, err := s.codec.Encode(sess.Container)
	if err != nil {
		return uuid.Nil, errors.Join(ErrEncodeContainer, err)
	}

	_, err = s.db.Exec(ctx, insertQuery, sess.ID.String(), sess.ValidTill, sess.Token, sess.Active, container)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return uuid.Nil, session.ErrDuplicateID
		}
		return uuid.Nil, err
	}
	return sess.ID, nil
}

// SetActive flips the business flag, e.g. when the owning account is disabled.
func (s *Store[C]) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := s.db.Exec(ctx, setActiveQuery, id.String(), active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

// DeleteExpired purges records whose validity ended before now.
func (s *Store[C]) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredQuery, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store[C]) scan(id uuid.UUID, row pgx.Row) (*session.Session[C], error) {
	var (
		validTill time.Time
		token     string
		active    bool
		raw       []byte
	)
	if err := row.Scan(&validTill, &token, &active, &raw); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	container, err := s.codec.Decode(raw)
	if err != nil {
		return nil, errors.Join(ErrDecodeContainer, err)
	}
	return session.Restore(id, validTill, token, active, container), nil
}
