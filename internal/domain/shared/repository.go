package shared

import (
	"context"
)

// RecordStore is the keyed storage of one local entity type.
// FindByKey and DeleteByKey return ErrNotFound when nothing matches the key.
type RecordStore[K EntityKey, E any] interface {
	FindByKey(ctx context.Context, key K) (*E, error)
	FindAll(ctx context.Context) ([]*E, error)
	// Put inserts or replaces by primary identity and returns the stored entity,
	// with any store-assigned identity filled in.
	Put(ctx context.Context, entity *E) (*E, error)
	DeleteByKey(ctx context.Context, key K) error
}
