package favourite

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/shared"
)

// FavouriteService serves favourites enriched with user and product
type FavouriteService = enrichment.Service[favourite.Key, favourite.Favourite, FavouriteDTO]

// Descriptor describes favourites keyed by (userId, productId, likeDate).
// Every field of a favourite is part of its key, so a merge changes nothing.
func Descriptor() enrichment.Descriptor[favourite.Key, favourite.Favourite, FavouriteDTO] {
	return enrichment.Descriptor[favourite.Key, favourite.Favourite, FavouriteDTO]{
		Entity:  "favourite",
		Key:     func(f *favourite.Favourite) favourite.Key { return f.Key() },
		ToDTO:   ToFavouriteDTO,
		FromDTO: FromFavouriteDTO,
		Merge: func(existing, _ *favourite.Favourite) *favourite.Favourite {
			merged := *existing
			return &merged
		},
		References: []enrichment.Reference[favourite.Favourite, FavouriteDTO]{
			enrichment.Ref("user",
				enrichment.RemoteTarget{Service: records.UserService, Resource: records.UsersResource},
				func(f *favourite.Favourite) int { return f.UserID },
				func(d *FavouriteDTO) **records.User { return &d.User }),
			enrichment.Ref("product",
				enrichment.RemoteTarget{Service: records.ProductService, Resource: records.ProductResource},
				func(f *favourite.Favourite) int { return f.ProductID },
				func(d *FavouriteDTO) **records.Product { return &d.Product }),
		},
		Delete: enrichment.DeleteDirect,
		Write:  enrichment.WriteEcho,
	}
}

// NewFavouriteService creates a new FavouriteService
func NewFavouriteService(store shared.RecordStore[favourite.Key, favourite.Favourite], resolver enrichment.Resolver, opts ...enrichment.Option) *FavouriteService {
	return enrichment.NewService(Descriptor(), store, resolver, opts...)
}
