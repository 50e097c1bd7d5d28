package handler

import (
	"context"

	userapp "github.com/ecommerce/backend/internal/application/user"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// UserService is what the user routes need from the application layer
type UserService interface {
	EntityService[shared.IntKey, userapp.UserDTO]
	FindByUsername(ctx context.Context, username string) (*userapp.UserDTO, error)
}

// UserHandler serves the user resource plus the lookup by username
type UserHandler struct {
	*EntityHandler[shared.IntKey, userapp.UserDTO]
	users UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{
		EntityHandler: NewEntityHandler[shared.IntKey, userapp.UserDTO](users, IntKeys("userId")),
		users:         users,
	}
}

// RegisterRoutes mounts the CRUD routes and GET /username/:username
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.EntityHandler.RegisterRoutes(rg)
	rg.GET("/username/:username", h.FindByUsername)
}

// FindByUsername returns the user owning the credential username
func (h *UserHandler) FindByUsername(c *gin.Context) {
	u, err := h.users.FindByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, u)
}
