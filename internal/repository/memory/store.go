// Package memory implements the repository interfaces with mutex-guarded
// maps. It mirrors the store semantics the services rely on: atomic
// batches, serialized transactions and idempotent set updates. Used by the
// service tests.
package memory

import (
	"context"
	"sync"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository"
)

type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]model.Document
}

func NewStore() *Store {
	return &Store{data: make(map[string]map[string]model.Document)}
}

func (s *Store) coll(name string) map[string]model.Document {
	c, ok := s.data[name]
	if !ok {
		c = make(map[string]model.Document)
		s.data[name] = c
	}
	return c
}

func (s *Store) Get(ctx context.Context, collection, id string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[collection][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyDoc(doc), nil
}

func (s *Store) Insert(ctx context.Context, collection, id string, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := copyDoc(doc)
	stored["_id"] = id
	s.coll(collection)[id] = stored
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return applyUpdate(s.data, collection, id, fields)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[collection][id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.data[collection], id)
	return nil
}

func (s *Store) FindEquals(ctx context.Context, collection, field string, values []string) ([]model.Document, error) {
	if err := checkQuerySize(collection, field, values); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Document
	for _, doc := range s.data[collection] {
		fv, ok := doc[field].(string)
		if !ok {
			continue
		}
		for _, v := range values {
			if fv == v {
				out = append(out, copyDoc(doc))
				break
			}
		}
	}
	return out, nil
}

func (s *Store) FindArrayContains(ctx context.Context, collection, field string, values []string) ([]model.Document, error) {
	if err := checkQuerySize(collection, field, values); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Document
	for _, doc := range s.data[collection] {
		members := asStrings(doc[field])
		if members == nil {
			continue
		}
		if overlaps(members, values) {
			out = append(out, copyDoc(doc))
		}
	}
	return out, nil
}

func (s *Store) FindAll(ctx context.Context, collection string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Document
	for _, doc := range s.data[collection] {
		out = append(out, copyDoc(doc))
	}
	return out, nil
}

// Txn serializes transactions behind the store lock, which stands in for
// the production store's optimistic conflict retry. On error nothing fn
// wrote survives.
func (s *Store) Txn(ctx context.Context, fn func(tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := copyData(s.data)
	if err := fn(&memTx{store: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

type memTx struct {
	store *Store
}

func (t *memTx) Get(collection, id string) (model.Document, error) {
	doc, ok := t.store.data[collection][id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyDoc(doc), nil
}

func (t *memTx) Update(collection, id string, fields model.Document) error {
	return applyUpdate(t.store.data, collection, id, fields)
}

func (t *memTx) AddToSet(collection, id, field string, values ...string) error {
	applyAddToSet(t.store.data, collection, id, field, values)
	return nil
}

func (t *memTx) Pull(collection, id, field string, values ...string) error {
	applyPull(t.store.data, collection, id, field, values)
	return nil
}

func checkQuerySize(collection, field string, values []string) error {
	if len(values) > repository.MaxQueryValues {
		return &queryTooLargeError{collection: collection, field: field}
	}
	return nil
}

type queryTooLargeError struct {
	collection, field string
}

func (e *queryTooLargeError) Error() string {
	return "query on " + e.collection + "." + e.field + " exceeds the per-query value limit"
}
