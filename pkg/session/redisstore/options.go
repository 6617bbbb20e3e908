package redisstore

import (
	"time"

	"github.com/dmitrymomot/authsession/pkg/session"
)

// Option configures a Store.
type Option[C any] func(*Store[C])

// WithKeyPrefix namespaces session keys, e.g. "session:admin:".
func WithKeyPrefix[C any](prefix string) Option[C] {
	return func(s *Store[C]) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithRetention keeps keys for d after their validity ended.
func WithRetention[C any](d time.Duration) Option[C] {
	return func(s *Store[C]) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithCodec replaces the JSON container codec.
func WithCodec[C any](codec session.Codec[C]) Option[C] {
	return func(s *Store[C]) {
		if codec != nil {
			s.codec = codec
		}
	}
}
