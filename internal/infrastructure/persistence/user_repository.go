package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/ecommerce/backend/internal/domain/shared"
	"github.com/ecommerce/backend/internal/domain/user"
	"gorm.io/gorm"
)

// GormUserRepository implements user.UserRepository using GORM. A user and its
// credential are written in one transaction.
type GormUserRepository struct {
	*GormStore[shared.IntKey, user.User]
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{
		GormStore: NewGormStore(db,
			func(u *user.User) shared.IntKey { return u.Key() },
			IntKeyColumn("user_id"),
			WithPreload("Credential"),
			WithOrder("user_id ASC"),
		),
		db: db,
	}
}

// Put upserts the user and, when present, its credential. An existing
// credential of the user is updated in place.
func (r *GormUserRepository) Put(ctx context.Context, u *user.User) (*user.User, error) {
	row := *u
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, &row); err != nil {
			return err
		}
		if u.Credential == nil {
			return nil
		}

		cred := *u.Credential
		cred.UserID = row.UserID
		var existing user.Credential
		err := tx.Where("user_id = ?", row.UserID).First(&existing).Error
		switch {
		case err == nil:
			cred.CredentialID = existing.CredentialID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return upsert(tx, &cred)
	})
	if err != nil {
		return nil, err
	}
	return r.FindByKey(ctx, row.Key())
}

// DeleteByKey deletes the user and its credential
func (r *GormUserRepository) DeleteByKey(ctx context.Context, key shared.IntKey) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", key.Int()).Delete(&user.Credential{}).Error; err != nil {
			return err
		}
		result := tx.Where("user_id = ?", key.Int()).Delete(&user.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByUsername finds the user owning the credential with username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var cred user.Credential
	if err := r.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		First(&cred).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByKey(ctx, shared.IntKey(cred.UserID))
}
