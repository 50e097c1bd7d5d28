package favourite

import (
	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/application/records"
	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/shared"
)

// FavouriteDTO is the wire shape of a favourite. User and product are
// resolved from their owning services.
type FavouriteDTO struct {
	UserID    int               `json:"userId"`
	ProductID int               `json:"productId"`
	LikeDate  *records.DateTime `json:"likeDate"`
	User      *records.User     `json:"user,omitempty"`
	Product   *records.Product  `json:"product,omitempty"`
}

// ToFavouriteDTO converts a stored favourite into its wire shape with stubs
func ToFavouriteDTO(f *favourite.Favourite) *FavouriteDTO {
	return &FavouriteDTO{
		UserID:    f.UserID,
		ProductID: f.ProductID,
		LikeDate:  records.NewDateTime(f.LikeDate),
		User:      &records.User{UserID: f.UserID},
		Product:   &records.Product{ProductID: f.ProductID},
	}
}

// FromFavouriteDTO keeps only the ids of the embedded user and product
func FromFavouriteDTO(dto *FavouriteDTO) (*favourite.Favourite, error) {
	nestedUser, nestedProduct := 0, 0
	if dto.User != nil {
		nestedUser = dto.User.UserID
	}
	if dto.Product != nil {
		nestedProduct = dto.Product.ProductID
	}
	userID, err := enrichment.ReconcileRef("userId", dto.UserID, nestedUser)
	if err != nil {
		return nil, err
	}
	productID, err := enrichment.ReconcileRef("productId", dto.ProductID, nestedProduct)
	if err != nil {
		return nil, err
	}
	return &favourite.Favourite{
		UserID:    userID,
		ProductID: productID,
		LikeDate:  shared.NormalizeTime(dto.LikeDate.Value()),
	}, nil
}
