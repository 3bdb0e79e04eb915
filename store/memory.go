package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-process implementation of Store.
// It backs the test suite and local runs without MySQL.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
	subs        map[string]map[int]*memorySub
	nextSub     int
}

type memorySub struct {
	collection string
	filters    []Filter
	onSnapshot SnapshotFunc
	onError    ErrorFunc
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		subs:        make(map[string]map[int]*memorySub),
	}
}

func (s *MemoryStore) collection(name string) map[string]Document {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]Document)
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Create(ctx context.Context, collection string, data Document) (string, error) {
	s.mu.Lock()
	id := uuid.NewString()
	s.collection(collection)[id] = CloneDocument(data)
	s.mu.Unlock()

	s.notify(collection)
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, partial Document) error {
	s.mu.Lock()
	doc, ok := s.collection(collection)[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range partial {
		doc[k] = v
	}
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	c := s.collection(collection)
	if _, ok := c[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(c, id)
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collection(collection)[id]
	if !ok {
		return Doc{}, ErrNotFound
	}
	return Doc{ID: id, Data: CloneDocument(data)}, nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filters ...Filter) ([]Doc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLocked(collection, filters), nil
}

func (s *MemoryStore) queryLocked(collection string, filters []Filter) []Doc {
	var docs []Doc
	for id, data := range s.collection(collection) {
		if matches(data, filters) {
			docs = append(docs, Doc{ID: id, Data: CloneDocument(data)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

func (s *MemoryStore) Subscribe(collection string, filters []Filter, onSnapshot SnapshotFunc, onError ErrorFunc) func() {
	s.mu.Lock()
	sub := &memorySub{collection: collection, filters: filters, onSnapshot: onSnapshot, onError: onError}
	id := s.nextSub
	s.nextSub++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*memorySub)
	}
	s.subs[collection][id] = sub
	initial := s.queryLocked(collection, filters)
	s.mu.Unlock()

	onSnapshot(initial)

	return func() {
		s.mu.Lock()
		delete(s.subs[collection], id)
		s.mu.Unlock()
	}
}

// notify re-queries for every subscriber of the collection and delivers
// the full current result set. Called without the lock held.
func (s *MemoryStore) notify(collection string) {
	s.mu.Lock()
	type delivery struct {
		sub  *memorySub
		docs []Doc
	}
	var pending []delivery
	for _, sub := range s.subs[collection] {
		pending = append(pending, delivery{sub: sub, docs: s.queryLocked(collection, sub.filters)})
	}
	s.mu.Unlock()

	for _, d := range pending {
		d.sub.onSnapshot(d.docs)
	}
}
