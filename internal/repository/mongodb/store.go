// Package mongodb implements the repository interfaces on the MongoDB Go
// driver. Single-document writes are atomic; batches and transactions run
// inside sessions with majority read/write concerns.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
)

type Config struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects, pings the primary and returns the store handle.
func NewStore(cfg Config) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Get(ctx context.Context, collection, id string) (model.Document, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return model.Document(doc), nil
}

func (s *Store) Insert(ctx context.Context, collection, id string, doc model.Document) error {
	doc["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, bson.M(doc)); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", collection, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields model.Document) error {
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) FindEquals(ctx context.Context, collection, field string, values []string) ([]model.Document, error) {
	return s.find(ctx, collection, field, values)
}

// FindArrayContains relies on mongo matching $in against array elements.
func (s *Store) FindArrayContains(ctx context.Context, collection, field string, values []string) ([]model.Document, error) {
	return s.find(ctx, collection, field, values)
}

func (s *Store) find(ctx context.Context, collection, field string, values []string) ([]model.Document, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) > repository.MaxQueryValues {
		return nil, fmt.Errorf("query on %s.%s exceeds %d values", collection, field, repository.MaxQueryValues)
	}
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{field: bson.M{"$in": values}})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", collection, field, err)
	}
	return drain(ctx, cursor)
}

func (s *Store) FindAll(ctx context.Context, collection string) ([]model.Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", collection, err)
	}
	return drain(ctx, cursor)
}

func drain(ctx context.Context, cursor *mongo.Cursor) ([]model.Document, error) {
	defer cursor.Close(ctx)
	var out []model.Document
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, model.Document(doc))
	}
	return out, cursor.Err()
}

// Txn runs fn inside a session transaction. The driver retries the whole
// callback on transient transaction errors and write conflicts.
func (s *Store) Txn(ctx context.Context, fn func(tx repository.Tx) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(&mongoTx{ctx: sc, db: s.db})
	})
	return err
}

type mongoTx struct {
	ctx mongo.SessionContext
	db  *mongo.Database
}

func (t *mongoTx) Get(collection, id string) (model.Document, error) {
	var doc bson.M
	err := t.db.Collection(collection).FindOne(t.ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.Document(doc), nil
}

func (t *mongoTx) Update(collection, id string, fields model.Document) error {
	res, err := t.db.Collection(collection).UpdateByID(t.ctx, id, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (t *mongoTx) AddToSet(collection, id, field string, values ...string) error {
	_, err := t.db.Collection(collection).UpdateByID(t.ctx, id,
		bson.M{"$addToSet": bson.M{field: bson.M{"$each": values}}})
	return err
}

func (t *mongoTx) Pull(collection, id, field string, values ...string) error {
	_, err := t.db.Collection(collection).UpdateByID(t.ctx, id,
		bson.M{"$pull": bson.M{field: bson.M{"$in": values}}})
	return err
}
