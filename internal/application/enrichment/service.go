package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many entities FindAll enriches at once.
const DefaultConcurrency = 8

var validate = validator.New(validator.WithRequiredStructEnabled())

// Service is the CRUD engine for one entity type. Reads return composite
// views with every reference resolved; writes persist identifiers only.
type Service[K shared.EntityKey, E, D any] struct {
	desc        Descriptor[K, E, D]
	store       shared.RecordStore[K, E]
	resolver    Resolver
	concurrency int
	logger      *zap.Logger
}

// Option configures a Service
type Option func(*options)

type options struct {
	concurrency int
	logger      *zap.Logger
}

// WithConcurrency bounds the number of entities enriched in parallel by FindAll
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService creates the engine. It panics if desc is incomplete, since that
// is a wiring mistake rather than a runtime condition.
func NewService[K shared.EntityKey, E, D any](desc Descriptor[K, E, D], store shared.RecordStore[K, E], resolver Resolver, opts ...Option) *Service[K, E, D] {
	if err := desc.validate(); err != nil {
		panic(err)
	}
	if len(desc.References) > 0 && resolver == nil {
		panic(fmt.Sprintf("enrichment: descriptor %s has references but no resolver", desc.Entity))
	}
	o := options{concurrency: DefaultConcurrency, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Service[K, E, D]{
		desc:        desc,
		store:       store,
		resolver:    resolver,
		concurrency: o.concurrency,
		logger:      o.logger.With(zap.String("entity", desc.Entity)),
	}
}

// Entity returns the entity name the service was configured with
func (s *Service[K, E, D]) Entity() string {
	return s.desc.Entity
}

// FindAll returns every stored entity, enriched, in store order.
func (s *Service[K, E, D]) FindAll(ctx context.Context) ([]*D, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.desc.Entity, "find_all")
	defer span.End()

	entities, err := s.store.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap("FindAll", err)
	}
	telemetry.SetAttribute(span, "entity.count", len(entities))

	views := make([]*D, len(entities))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, entity := range entities {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			view, err := s.enrich(gctx, entity)
			if err != nil {
				return fmt.Errorf("[%s] %w", s.desc.Key(entity), err)
			}
			views[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap("FindAll", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.wrap("FindAll", err)
	}
	return views, nil
}

// FindByID returns the enriched entity stored at key.
func (s *Service[K, E, D]) FindByID(ctx context.Context, key K) (*D, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.desc.Entity, "find_by_id")
	defer span.End()

	entity, err := s.load(ctx, key)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap("FindByID", err)
	}
	view, err := s.enrich(ctx, entity)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap("FindByID", fmt.Errorf("[%s] %w", key, err))
	}
	return view, nil
}

// Save persists the entity described by view.
func (s *Service[K, E, D]) Save(ctx context.Context, view *D) (*D, error) {
	return s.write(ctx, "Save", view)
}

// Update upserts the entity described by view.
func (s *Service[K, E, D]) Update(ctx context.Context, view *D) (*D, error) {
	return s.write(ctx, "Update", view)
}

// UpdateByID merges view over the entity stored at key. An absent key is
// EntityNotFound and nothing is written.
func (s *Service[K, E, D]) UpdateByID(ctx context.Context, key K, view *D) (*D, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.desc.Entity, "update_by_id")
	defer span.End()

	// incoming may be partial, so tag validation applies to the merged entity
	incoming, err := s.convert(view)
	if err != nil {
		return nil, s.wrap("UpdateByID", err)
	}
	existing, err := s.load(ctx, key)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap("UpdateByID", err)
	}
	merged := s.desc.Merge(existing, incoming)
	if got := s.desc.Key(merged); got != key {
		return nil, s.wrap("UpdateByID", shared.NewValidationError("key", fmt.Sprintf("merge changed identity from [%s] to [%s]", key, got)))
	}
	if err := check(merged); err != nil {
		return nil, s.wrap("UpdateByID", err)
	}
	stored, err := s.store.Put(ctx, merged)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap("UpdateByID", err)
	}
	out, err := s.result(ctx, stored, view)
	if err != nil {
		return nil, s.wrap("UpdateByID", err)
	}
	return out, nil
}

// DeleteByID removes the entity stored at key according to the delete policy.
func (s *Service[K, E, D]) DeleteByID(ctx context.Context, key K) error {
	ctx, span := telemetry.StartServiceSpan(ctx, s.desc.Entity, "delete_by_id")
	defer span.End()

	if s.desc.Delete == DeleteLookupFirst {
		if _, err := s.load(ctx, key); err != nil {
			telemetry.RecordError(span, err)
			return s.wrap("DeleteByID", err)
		}
		if err := s.store.DeleteByKey(ctx, key); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				err = shared.NewEntityNotFoundError(s.desc.Entity, key.String())
			}
			telemetry.RecordError(span, err)
			return s.wrap("DeleteByID", err)
		}
		return nil
	}

	if err := s.store.DeleteByKey(ctx, key); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Debug("delete of absent key ignored", zap.String("key", key.String()))
			return nil
		}
		telemetry.RecordError(span, err)
		return s.wrap("DeleteByID", err)
	}
	return nil
}

// Present builds the enriched view of an entity loaded outside the engine,
// such as by a secondary lookup of the store.
func (s *Service[K, E, D]) Present(ctx context.Context, entity *E) (*D, error) {
	if entity == nil {
		return nil, nil
	}
	view, err := s.enrich(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("[%s] %w", s.desc.Key(entity), err)
	}
	return view, nil
}

func (s *Service[K, E, D]) write(ctx context.Context, op string, view *D) (*D, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, s.desc.Entity, strings.ToLower(op))
	defer span.End()

	entity, err := s.normalize(view)
	if err != nil {
		return nil, s.wrap(op, err)
	}
	stored, err := s.store.Put(ctx, entity)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap(op, err)
	}
	out, err := s.result(ctx, stored, view)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.wrap(op, err)
	}
	return out, nil
}

// normalize converts and validates a view without touching the store or any
// remote service.
func (s *Service[K, E, D]) normalize(view *D) (*E, error) {
	entity, err := s.convert(view)
	if err != nil {
		return nil, err
	}
	if err := check(entity); err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Service[K, E, D]) convert(view *D) (*E, error) {
	if view == nil {
		return nil, shared.NewValidationError("", "request body is required")
	}
	return s.desc.FromDTO(view)
}

// check applies the validate tags of the entity
func check(entity any) error {
	if err := validate.Struct(entity); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return shared.NewValidationError(fe.Namespace(), "failed on "+fe.Tag())
		}
		return shared.NewValidationError("", err.Error())
	}
	return nil
}

func (s *Service[K, E, D]) result(ctx context.Context, stored *E, input *D) (*D, error) {
	if s.desc.Write == WriteReenrich {
		return s.enrich(ctx, stored)
	}
	view := s.desc.ToDTO(stored)
	for _, ref := range s.desc.References {
		ref.echo(stored, input, view)
	}
	return view, nil
}

func (s *Service[K, E, D]) load(ctx context.Context, key K) (*E, error) {
	entity, err := s.store.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewEntityNotFoundError(s.desc.Entity, key.String())
		}
		return nil, err
	}
	return entity, nil
}

// enrich builds the view of one entity, resolving its references
// concurrently. The first failure cancels the remaining lookups.
func (s *Service[K, E, D]) enrich(ctx context.Context, entity *E) (*D, error) {
	view := s.desc.ToDTO(entity)
	if len(s.desc.References) == 0 {
		return view, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range s.desc.References {
		g.Go(func() error {
			degraded, err := ref.resolve(gctx, s.resolver, entity, view)
			if degraded {
				s.logger.Warn("remote reference degraded to null",
					zap.String("field", ref.Field()),
					zap.String("service", ref.Target().Service),
					zap.Int("id", ref.StoredID(entity)),
					zap.String("policy", ref.Policy().String()),
				)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *Service[K, E, D]) wrap(op string, err error) error {
	return fmt.Errorf("%s.%s: %w", s.desc.Entity, op, err)
}
