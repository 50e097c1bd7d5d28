package persistence

import (
	"context"
	"sync"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// MemoryStore is an in-process RecordStore. FindAll returns entities in
// insertion order. Stored values are shallow copies.
type MemoryStore[K shared.EntityKey, E any] struct {
	mu       sync.RWMutex
	keyOf    func(*E) K
	assignID func(*E, int)
	seq      int
	order    []K
	items    map[K]*E
}

// NewMemoryStore creates a store keyed by keyOf. When assignID is set, Put
// calls it with the next sequence value for entities whose key is zero.
func NewMemoryStore[K shared.EntityKey, E any](keyOf func(*E) K, assignID func(*E, int)) *MemoryStore[K, E] {
	return &MemoryStore[K, E]{
		keyOf:    keyOf,
		assignID: assignID,
		items:    make(map[K]*E),
	}
}

// FindByKey returns a copy of the entity stored at key
func (s *MemoryStore[K, E]) FindByKey(ctx context.Context, key K) (*E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.items[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// FindAll returns copies of every entity in insertion order
func (s *MemoryStore[K, E]) FindAll(ctx context.Context) ([]*E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*E, 0, len(s.order))
	for _, k := range s.order {
		cp := *s.items[k]
		out = append(out, &cp)
	}
	return out, nil
}

// Find returns copies of the entities matching pred, in insertion order
func (s *MemoryStore[K, E]) Find(ctx context.Context, pred func(*E) bool) ([]*E, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, e := range all {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Put inserts or replaces the entity by key
func (s *MemoryStore[K, E]) Put(ctx context.Context, entity *E) (*E, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entity
	var zero K
	key := s.keyOf(&cp)
	if key == zero && s.assignID != nil {
		for {
			s.seq++
			s.assignID(&cp, s.seq)
			key = s.keyOf(&cp)
			if _, taken := s.items[key]; !taken {
				break
			}
		}
	}
	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = &cp

	out := cp
	return &out, nil
}

// DeleteByKey removes the entity stored at key
func (s *MemoryStore[K, E]) DeleteByKey(ctx context.Context, key K) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return shared.ErrNotFound
	}
	delete(s.items, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored entities
func (s *MemoryStore[K, E]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
