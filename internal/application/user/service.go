package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecommerce/backend/internal/application/enrichment"
	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/user"
	"github.com/ecommerce/backend/internal/infrastructure/telemetry"
)

// Descriptor describes users to the enrichment engine. Users hold no remote
// references; deleting an absent user is a no-op.
func Descriptor() enrichment.Descriptor[shared.IntKey, user.User, UserDTO] {
	return enrichment.Descriptor[shared.IntKey, user.User, UserDTO]{
		Entity:  "user",
		Key:     func(u *user.User) shared.IntKey { return u.Key() },
		ToDTO:   ToUserDTO,
		FromDTO: FromUserDTO,
		Merge: func(existing, incoming *user.User) *user.User {
			merged := *existing
			if existing.Credential != nil {
				cred := *existing.Credential
				merged.Credential = &cred
			}
			merged.Merge(incoming)
			return &merged
		},
		Delete: enrichment.DeleteDirect,
		Write:  enrichment.WriteEcho,
	}
}

// UserService exposes user CRUD plus the lookup by username
type UserService struct {
	*enrichment.Service[shared.IntKey, user.User, UserDTO]
	repo user.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(repo user.UserRepository, opts ...enrichment.Option) *UserService {
	return &UserService{
		Service: enrichment.NewService(Descriptor(), repo, nil, opts...),
		repo:    repo,
	}
}

// FindByUsername returns the user whose credential carries username
func (s *UserService) FindByUsername(ctx context.Context, username string) (*UserDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "user", "find_by_username")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("user.FindByUsername: %w", shared.NewValidationError("username", "is required"))
	}
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.NewEntityNotFoundError("user", "username="+username)
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("user.FindByUsername: %w", err)
	}
	return s.Present(ctx, u)
}
