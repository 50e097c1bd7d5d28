package persistence

import (
	"context"
	"errors"

	"github.com/ecommerce/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyColumns maps a key to the column values that select its row
type KeyColumns[K shared.EntityKey] func(K) map[string]any

// IntKeyColumn selects rows by a single integer primary key column
func IntKeyColumn(column string) KeyColumns[shared.IntKey] {
	return func(k shared.IntKey) map[string]any {
		return map[string]any{column: k.Int()}
	}
}

// GormStoreOption configures a GormStore
type GormStoreOption func(*gormStoreConfig)

type gormStoreConfig struct {
	preload []string
	order   string
}

// WithPreload loads the named associations on every read
func WithPreload(associations ...string) GormStoreOption {
	return func(c *gormStoreConfig) {
		c.preload = append(c.preload, associations...)
	}
}

// WithOrder sets the ORDER BY clause of FindAll
func WithOrder(order string) GormStoreOption {
	return func(c *gormStoreConfig) {
		c.order = order
	}
}

// GormStore implements shared.RecordStore for an entity that is its own GORM model.
// Associations are read through preloads but never written: only the foreign
// key columns of E are persisted.
type GormStore[K shared.EntityKey, E any] struct {
	db      *gorm.DB
	keyOf   func(*E) K
	columns KeyColumns[K]
	cfg     gormStoreConfig
}

// NewGormStore creates a store for E
func NewGormStore[K shared.EntityKey, E any](db *gorm.DB, keyOf func(*E) K, columns KeyColumns[K], opts ...GormStoreOption) *GormStore[K, E] {
	var cfg gormStoreConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GormStore[K, E]{db: db, keyOf: keyOf, columns: columns, cfg: cfg}
}

func (s *GormStore[K, E]) read(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, assoc := range s.cfg.preload {
		q = q.Preload(assoc)
	}
	return q
}

// FindByKey finds an entity by its key
func (s *GormStore[K, E]) FindByKey(ctx context.Context, key K) (*E, error) {
	var entity E
	if err := s.read(ctx).Where(s.columns(key)).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAll returns every entity, ordered by the configured clause
func (s *GormStore[K, E]) FindAll(ctx context.Context) ([]*E, error) {
	var entities []E
	q := s.read(ctx)
	if s.cfg.order != "" {
		q = q.Order(s.cfg.order)
	}
	if err := q.Find(&entities).Error; err != nil {
		return nil, err
	}
	out := make([]*E, len(entities))
	for i := range entities {
		out[i] = &entities[i]
	}
	return out, nil
}

// Put inserts the entity, or overwrites the row with the same primary key,
// and returns the stored row.
func (s *GormStore[K, E]) Put(ctx context.Context, entity *E) (*E, error) {
	row := *entity
	if err := upsert(s.db.WithContext(ctx), &row); err != nil {
		return nil, err
	}
	return s.FindByKey(ctx, s.keyOf(&row))
}

// DeleteByKey deletes the row selected by key
func (s *GormStore[K, E]) DeleteByKey(ctx context.Context, key K) error {
	result := s.db.WithContext(ctx).Where(s.columns(key)).Delete(new(E))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// upsert writes row without touching its associations
func upsert(tx *gorm.DB, row any) error {
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}
