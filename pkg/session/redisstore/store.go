// Package redisstore persists sessions as Redis hashes.
//
// Insert and refresh run as Lua scripts, so each is atomic on the server.
// Keys expire through PEXPIREAT at valid_till plus the configured retention,
// which is how expired records are purged.
package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authsession/pkg/session"
)

const (
	fieldValidTill = "valid_till"
	fieldToken     = "token"
	fieldActive    = "active"
	fieldContainer = "container"
)

// KEYS[1] key; ARGV valid_till_ms, token, active, container, expire_at_ms
var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'valid_till', ARGV[1], 'token', ARGV[2], 'active', ARGV[3], 'container', ARGV[4])
redis.call('PEXPIREAT', KEYS[1], ARGV[5])
return 1
`)

// KEYS[1] key; ARGV valid_till_ms, now_ms, expire_at_ms
var refreshScript = redis.NewScript(`
local v = redis.call('HMGET', KEYS[1], 'valid_till', 'active')
if not v[1] or v[2] ~= '1' then
	return false
end
local current = tonumber(v[1])
if current < tonumber(ARGV[2]) then
	return false
end
if tonumber(ARGV[1]) > current then
	redis.call('HSET', KEYS[1], 'valid_till', ARGV[1])
	redis.call('PEXPIREAT', KEYS[1], ARGV[3])
end
return redis.call('HGETALL', KEYS[1])
`)

// KEYS[1] key; ARGV active
var setActiveScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'active', ARGV[1])
return 1
`)

// Store implements session.Store on Redis.
type Store[C any] struct {
	client    redis.UniversalClient
	prefix    string
	retention time.Duration
	codec     session.Codec[C]
}

// New creates a store. Keys are "session:<id>" unless WithKeyPrefix is given.
func New[C any](client redis.UniversalClient, opts ...Option[C]) *Store[C] {
	s := &Store[C]{
		client: client,
		prefix: "session:",
		codec:  session.JSONCodec[C]{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[C]) key(id uuid.UUID) string {
	return s.prefix + id.String()
}

func (s *Store[C]) expireAt(validTill time.Time) int64 {
	return validTill.Add(s.retention).UnixMilli()
}

func (s *Store[C]) FindByID(ctx context.Context, id uuid.UUID) (*session.Session[C], error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, session.ErrNotFound
	}
	return s.decode(id, fields)
}

func (s *Store[C]) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store[C]) RefreshValidity(ctx context.Context, id uuid.UUID, validTill, now time.Time) (*session.Session[C], error) {
	reply, err := refreshScript.Run(ctx, s.client, []string{s.key(id)},
		validTill.UnixMilli(),
		now.UnixMilli(),
		s.expireAt(validTill),
	).StringSlice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	fields := make(map[string]string, len(reply)/2)
	for i := 0; i+1 < len(reply); i += 2 {
		fields[reply[i]] = reply[i+1]
	}
	return s.decode(id, fields)
}

func (s *Store[C]) Insert(ctx context.Context, sess *session.Session[C]) (uuid.UUID, error) {
	if sess == nil || sess.ID == uuid.Nil {
		return uuid.Nil, session.ErrInvalidSession
	}

	container, err := s.codec.Encode(sess.Container)
	if err != nil {
		return uuid.Nil, errors.Join(ErrEncodeContainer, err)
	}

	inserted, err := insertScript.Run(ctx, s.client, []string{s.key(sess.ID)},
		sess.ValidTill.UnixMilli(),
		sess.Token,
		formatBool(sess.Active),
		container,
		s.expireAt(sess.ValidTill),
	).Int()
	if err != nil {
		return uuid.Nil, err
	}
	if inserted == 0 {
		return uuid.Nil, session.ErrDuplicateID
	}
	return sess.ID, nil
}

// SetActive flips the business flag, e.g. when the owning account is disabled.
func (s *Store[C]) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	updated, err := setActiveScript.Run(ctx, s.client, []string{s.key(id)}, formatBool(active)).Int()
	if err != nil {
		return err
	}
	if updated == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (s *Store[C]) decode(id uuid.UUID, fields map[string]string) (*session.Session[C], error) {
	ms, err := strconv.ParseInt(fields[fieldValidTill], 10, 64)
	if err != nil {
		return nil, errors.Join(ErrCorruptRecord, err)
	}

	container, err := s.codec.Decode([]byte(fields[fieldContainer]))
	if err != nil {
		return nil, errors.Join(ErrDecodeContainer, err)
	}

	return session.Restore(id, time.UnixMilli(ms), fields[fieldToken], fields[fieldActive] == "1", container), nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
