package handler

import (
	"strconv"
	"strings"

	"github.com/ecommerce/backend/internal/domain/favourite"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/shipping"
	"github.com/gin-gonic/gin"
)

// KeyParser reads an entity key from the path parameters named in Pattern
type KeyParser[K shared.EntityKey] struct {
	Pattern string
	Parse   func(c *gin.Context) (K, error)
}

// IntKeys reads single-integer keys from "/:name"
func IntKeys(name string) KeyParser[shared.IntKey] {
	return KeyParser[shared.IntKey]{
		Pattern: "/:" + name,
		Parse: func(c *gin.Context) (shared.IntKey, error) {
			id, err := pathInt(c, name)
			return shared.IntKey(id), err
		},
	}
}

// ShippingKeys reads order-item keys from "/:orderId/:productId"
func ShippingKeys() KeyParser[shipping.Key] {
	return KeyParser[shipping.Key]{
		Pattern: "/:orderId/:productId",
		Parse: func(c *gin.Context) (shipping.Key, error) {
			orderID, err := pathInt(c, "orderId")
			if err != nil {
				return shipping.Key{}, err
			}
			productID, err := pathInt(c, "productId")
			if err != nil {
				return shipping.Key{}, err
			}
			return shipping.Key{ProductID: productID, OrderID: orderID}, nil
		},
	}
}

// FavouriteKeys reads favourite keys from "/:userId/:productId/:likeDate",
// likeDate in the dd-MM-yyyy__HH:mm:ss:SSSSSS layout.
func FavouriteKeys() KeyParser[favourite.Key] {
	return KeyParser[favourite.Key]{
		Pattern: "/:userId/:productId/:likeDate",
		Parse: func(c *gin.Context) (favourite.Key, error) {
			userID, err := pathInt(c, "userId")
			if err != nil {
				return favourite.Key{}, err
			}
			productID, err := pathInt(c, "productId")
			if err != nil {
				return favourite.Key{}, err
			}
			likeDate, err := shared.ParseLocalDateTime(c.Param("likeDate"))
			if err != nil {
				return favourite.Key{}, shared.NewValidationError("likeDate", "must match dd-MM-yyyy__HH:mm:ss:SSSSSS")
			}
			return favourite.NewKey(userID, productID, likeDate), nil
		},
	}
}

func pathInt(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Param(name)))
	if err != nil || id <= 0 {
		return 0, shared.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}
