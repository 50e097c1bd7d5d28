package user

import (
	"context"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// UserRepository stores users with their credentials
type UserRepository interface {
	shared.RecordStore[shared.IntKey, User]
	// FindByUsername returns shared.ErrNotFound when no credential matches.
	FindByUsername(ctx context.Context, username string) (*User, error)
}
