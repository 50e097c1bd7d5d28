package enrichment

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/order"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/mock"
)

// MockResolver is a mock implementation of Resolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, target RemoteTarget, id string, out any) error {
	args := m.Called(ctx, target, id, out)
	return args.Error(0)
}

// fill copies rec into the out argument of a Resolve call
func fill[R any](rec R) func(mock.Arguments) {
	return func(args mock.Arguments) {
		*args.Get(3).(*R) = rec
	}
}

// MockFavouriteStore is a mock implementation of shared.RecordStore for favourites
type MockFavouriteStore struct {
	mock.Mock
}

func (m *MockFavouriteStore) FindByKey(ctx context.Context, key favourite.Key) (*favourite.Favourite, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*favourite.Favourite), args.Error(1)
}

func (m *MockFavouriteStore) FindAll(ctx context.Context) ([]*favourite.Favourite, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*favourite.Favourite), args.Error(1)
}

func (m *MockFavouriteStore) Put(ctx context.Context, entity *favourite.Favourite) (*favourite.Favourite, error) {
	args := m.Called(ctx, entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*favourite.Favourite), args.Error(1)
}

func (m *MockFavouriteStore) DeleteByKey(ctx context.Context, key favourite.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var (
	userTarget    = RemoteTarget{Service: "user-service", Resource: "api/users"}
	productTarget = RemoteTarget{Service: "product-service", Resource: "api/products"}
)

// favView is the composite view used by the engine tests
type favView struct {
	UserID    int
	ProductID int
	LikeDate  time.Time
	User      *records.User
	Product   *records.Product
}

func favDescriptor(policy Policy, reversed bool) Descriptor[favourite.Key, favourite.Favourite, favView] {
	refs := []Reference[favourite.Favourite, favView]{
		Ref("user", userTarget,
			func(f *favourite.Favourite) int { return f.UserID },
			func(v *favView) **records.User { return &v.User },
			WithPolicy(policy)),
		Ref("product", productTarget,
			func(f *favourite.Favourite) int { return f.ProductID },
			func(v *favView) **records.Product { return &v.Product },
			WithPolicy(policy)),
	}
	if reversed {
		refs[0], refs[1] = refs[1], refs[0]
	}
	return Descriptor[favourite.Key, favourite.Favourite, favView]{
		Entity: "favourite",
		Key:    func(f *favourite.Favourite) favourite.Key { return f.Key() },
		ToDTO: func(f *favourite.Favourite) *favView {
			return &favView{
				UserID:    f.UserID,
				ProductID: f.ProductID,
				LikeDate:  f.LikeDate,
				User:      &records.User{UserID: f.UserID},
				Product:   &records.Product{ProductID: f.ProductID},
			}
		},
		FromDTO: func(v *favView) (*favourite.Favourite, error) {
			nestedUser, nestedProduct := 0, 0
			if v.User != nil {
				nestedUser = v.User.UserID
			}
			if v.Product != nil {
				nestedProduct = v.Product.ProductID
			}
			userID, err := ReconcileRef("userId", v.UserID, nestedUser)
			if err != nil {
				return nil, err
			}
			productID, err := ReconcileRef("productId", v.ProductID, nestedProduct)
			if err != nil {
				return nil, err
			}
			return &favourite.Favourite{UserID: userID, ProductID: productID, LikeDate: shared.NormalizeTime(v.LikeDate)}, nil
		},
		Merge: func(existing, _ *favourite.Favourite) *favourite.Favourite {
			cp := *existing
			return &cp
		},
		References: refs,
	}
}

// countingResolver answers every lookup with a record carrying the requested
// id and tracks how many lookups overlap.
type countingResolver struct {
	inFlight *atomic.Int32
	peak     *atomic.Int32
}

func (r *countingResolver) Resolve(ctx context.Context, _ RemoteTarget, id string, out any) error {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-ctx.Done():
		return shared.NewRemoteError(shared.ErrRemoteUnavailable, "test", id, ctx.Err())
	case <-time.After(5 * time.Millisecond):
	}

	recID, _ := strconv.Atoi(id)
	switch rec := out.(type) {
	case *records.User:
		rec.UserID = recID
	case *records.Product:
		rec.ProductID = recID
	}
	return nil
}

// countingStore counts deletes that reach the underlying store
type countingStore[K shared.EntityKey, E any] struct {
	*persistence.MemoryStore[K, E]
	deletes atomic.Int32
}

func (s *countingStore[K, E]) DeleteByKey(ctx context.Context, key K) error {
	if err := s.MemoryStore.DeleteByKey(ctx, key); err != nil {
		return err
	}
	s.deletes.Add(1)
	return nil
}

type orderView struct {
	OrderID   int
	OrderDesc string
	OrderDate time.Time
}

func orderDescriptor() Descriptor[shared.IntKey, order.Order, orderView] {
	return Descriptor[shared.IntKey, order.Order, orderView]{
		Entity: "order",
		Key:    func(o *order.Order) shared.IntKey { return o.Key() },
		ToDTO: func(o *order.Order) *orderView {
			return &orderView{OrderID: o.OrderID, OrderDesc: o.OrderDesc, OrderDate: o.OrderDate}
		},
		FromDTO: func(v *orderView) (*order.Order, error) {
			return &order.Order{OrderID: v.OrderID, OrderDesc: v.OrderDesc, OrderDate: v.OrderDate}, nil
		},
		Merge: func(existing, incoming *order.Order) *order.Order {
			cp := *existing
			cp.Merge(incoming)
			return &cp
		},
		Delete: DeleteLookupFirst,
	}
}
