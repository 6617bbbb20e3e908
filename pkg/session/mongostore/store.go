// Package mongostore persists sessions in a MongoDB collection.
//
// Each session is one document keyed by its UUID (binary subtype 4).
// Refreshes are a single FindOneAndUpdate whose filter carries the
// active/unexpired predicate, so concurrent requests never race.
package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/authsession/pkg/session"
)

const uuidSubtype byte = 0x04

const ttlIndexName = "valid_till_ttl"

type document[C any] struct {
	ID        bson.Binary `bson:"_id"`
	ValidTill time.Time   `bson:"valid_till"`
	Token     string      `bson:"token"`
	Active    bool        `bson:"active"`
	Container C           `bson:"container"`
}

// Store implements session.Store on a MongoDB collection.
type Store[C any] struct {
	coll *mongo.Collection
}

// New creates a store over coll. Call EnsureIndexes once at startup.
func New[C any](coll *mongo.Collection) *Store[C] {
	return &Store[C]{coll: coll}
}

// EnsureIndexes creates the TTL index that lets MongoDB purge records
// retention after their validity ended.
func (s *Store[C]) EnsureIndexes(ctx context.Context, retention time.Duration) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "valid_till", Value: 1}},
		Options: options.Index().
			SetName(ttlIndexName).
			SetExpireAfterSeconds(int32(retention / time.Second)),
	})
	if err != nil {
		return errors.Join(ErrIndexCreation, err)
	}
	return nil
}

func (s *Store[C]) FindByID(ctx context.Context, id uuid.UUID) (*session.Session[C], error) {
	var doc document[C]
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: binaryID(id)}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return doc.restore()
}

func (s *Store[C]) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: binaryID(id)}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// RefreshValidity applies $max to valid_till on an active, unexpired document
// and returns the document after the update.
func (s *Store[C]) RefreshValidity(ctx context.Context, id uuid.UUID, validTill, now time.Time) (*session.Session[C], error) {
	filter := bson.D{
		{Key: "_id", Value: binaryID(id)},
		{Key: "active", Value: true},
		{Key: "valid_till", Value: bson.D{{Key: "$gte", Value: now}}},
	}
	update := bson.D{
		{Key: "$max", Value: bson.D{{Key: "valid_till", Value: validTill}}},
	}

	var doc document[C]
	err := s.coll.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return doc.restore()
}

func (s *Store[C]) Insert(ctx context.Context, sess *session.Session[C]) (uuid.UUID, error) {
	if sess == nil || sess.ID == uuid.Nil {
		return uuid.Nil, session.ErrInvalidSession
	}

	_, err := s.coll.InsertOne(ctx, document[C]{
		ID:        binaryID(sess.ID),
		ValidTill: sess.ValidTill,
		Token:     sess.Token,
		Active:    sess.Active,
		Container: sess.Container,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return uuid.Nil, session.ErrDuplicateID
		}
		return uuid.Nil, err
	}
	return sess.ID, nil
}

// SetActive flips the business flag, e.g. when the owning account is disabled.
func (s *Store[C]) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: binaryID(id)}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "active", Value: active}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (d document[C]) restore() (*session.Session[C], error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}
	return session.Restore(id, d.ValidTill, d.Token, d.Active, d.Container), nil
}

func binaryID(id uuid.UUID) bson.Binary {
	return bson.Binary{Subtype: uuidSubtype, Data: id[:]}
}

func parseID(b bson.Binary) (uuid.UUID, error) {
	if b.Subtype != uuidSubtype {
		return uuid.Nil, ErrMalformedID
	}
	id, err := uuid.FromBytes(b.Data)
	if err != nil {
		return uuid.Nil, errors.Join(ErrMalformedID, err)
	}
	return id, nil
}
