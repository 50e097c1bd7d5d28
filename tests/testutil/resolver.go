package testutil

import (
	"context"
	"reflect"
	"strconv"
	"sync"

	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockResolver is a testify mock of enrichment.Resolver.
type MockResolver struct {
	mock.Mock
}

// Resolve records the call. Use Fill in Run to hand back a record.
func (m *MockResolver) Resolve(ctx context.Context, target enrichment.RemoteTarget, id string, out any) error {
	args := m.Called(ctx, target, id, out)
	return args.Error(0)
}

// Fill copies rec into the out argument of a Resolve call.
func Fill[R any](rec R) func(mock.Arguments) {
	return func(args mock.Arguments) {
		*args.Get(3).(*R) = rec
	}
}

// StubResolver answers lookups from an in-memory table of records keyed by
// service and id. Unknown ids are RemoteRecordMissing; services marked down
// are RemoteUnavailable.
type StubResolver struct {
	mu      sync.Mutex
	records map[string]map[string]any
	down    map[string]bool
	calls   map[string]int
}

// NewStubResolver creates an empty StubResolver
func NewStubResolver() *StubResolver {
	return &StubResolver{
		records: make(map[string]map[string]any),
		down:    make(map[string]bool),
		calls:   make(map[string]int),
	}
}

// Add registers rec under service and id. rec must be a pointer to the record
// type the caller decodes into.
func (s *StubResolver) Add(service string, id int, rec any) *StubResolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[service] == nil {
		s.records[service] = make(map[string]any)
	}
	s.records[service][strconv.Itoa(id)] = rec
	return s
}

// Down makes every lookup against service fail as unavailable
func (s *StubResolver) Down(service string) *StubResolver {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down[service] = true
	return s
}

// Calls returns how many lookups reached service
func (s *StubResolver) Calls(service string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[service]
}

// Resolve implements enrichment.Resolver
func (s *StubResolver) Resolve(ctx context.Context, target enrichment.RemoteTarget, id string, out any) error {
	s.mu.Lock()
	s.calls[target.Service]++
	down := s.down[target.Service]
	rec, ok := s.records[target.Service][id]
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return shared.NewRemoteError(shared.ErrRemoteUnavailable, target.Service, id, err)
	}
	if down {
		return shared.NewRemoteError(shared.ErrRemoteUnavailable, target.Service, id, nil)
	}
	if !ok {
		return shared.NewRemoteError(shared.ErrRemoteRecordMissing, target.Service, id, nil)
	}
	reflect.ValueOf(out).Elem().Set(reflect.ValueOf(rec).Elem())
	return nil
}
