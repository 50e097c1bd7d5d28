package user

import (
	"strings"

	"github.com/ecommerce/backend/internal/domain/shared"
)

// RoleBasedAuthority is the role granted to a credential
type RoleBasedAuthority string

const (
	RoleUser  RoleBasedAuthority = "ROLE_USER"
	RoleAdmin RoleBasedAuthority = "ROLE_ADMIN"
)

// IsValid reports whether the role is one of the known authorities
func (r RoleBasedAuthority) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the account owned by the user service
type User struct {
	UserID     int         `gorm:"column:user_id;primaryKey;autoIncrement"`
	FirstName  string      `gorm:"type:varchar(255)" validate:"max=255"`
	LastName   string      `gorm:"type:varchar(255)" validate:"max=255"`
	ImageURL   string      `gorm:"column:image_url;type:varchar(255)"`
	Email      string      `gorm:"type:varchar(255)" validate:"omitempty,email"`
	Phone      string      `gorm:"type:varchar(255)"`
	Credential *Credential `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE" validate:"omitempty"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// Key returns the primary identity
func (u *User) Key() shared.IntKey {
	return shared.IntKey(u.UserID)
}

// Credential holds the login identity of a user. It lives and dies with its user.
type Credential struct {
	CredentialID            int                `gorm:"column:credential_id;primaryKey;autoIncrement"`
	UserID                  int                `gorm:"column:user_id;uniqueIndex"`
	Username                string             `gorm:"type:varchar(255);uniqueIndex" validate:"required,max=255"`
	Password                string             `gorm:"type:varchar(255)"`
	RoleBasedAuthority      RoleBasedAuthority `gorm:"column:role;type:varchar(50)"`
	IsEnabled               bool               `gorm:"column:is_enabled"`
	IsAccountNonExpired     bool               `gorm:"column:is_account_non_expired"`
	IsAccountNonLocked      bool               `gorm:"column:is_account_non_locked"`
	IsCredentialsNonExpired bool               `gorm:"column:is_credentials_non_expired"`
}

// TableName returns the table name for GORM
func (Credential) TableName() string {
	return "credentials"
}

// Normalize trims the username and defaults the role
func (c *Credential) Normalize() error {
	c.Username = strings.TrimSpace(c.Username)
	if c.RoleBasedAuthority == "" {
		c.RoleBasedAuthority = RoleUser
	}
	if !c.RoleBasedAuthority.IsValid() {
		return shared.NewValidationError("credential.roleBasedAuthority", "unknown role "+string(c.RoleBasedAuthority))
	}
	return nil
}

// Merge copies the non-empty fields of incoming over u. The identity is kept.
func (u *User) Merge(incoming *User) {
	if incoming.FirstName != "" {
		u.FirstName = incoming.FirstName
	}
	if incoming.LastName != "" {
		u.LastName = incoming.LastName
	}
	if incoming.ImageURL != "" {
		u.ImageURL = incoming.ImageURL
	}
	if incoming.Email != "" {
		u.Email = incoming.Email
	}
	if incoming.Phone != "" {
		u.Phone = incoming.Phone
	}
	if incoming.Credential == nil {
		return
	}
	if u.Credential == nil {
		c := *incoming.Credential
		c.UserID = u.UserID
		u.Credential = &c
		return
	}
	if incoming.Credential.Username != "" {
		u.Credential.Username = incoming.Credential.Username
	}
	if incoming.Credential.Password != "" {
		u.Credential.Password = incoming.Credential.Password
	}
	if incoming.Credential.RoleBasedAuthority != "" {
		u.Credential.RoleBasedAuthority = incoming.Credential.RoleBasedAuthority
	}
	u.Credential.IsEnabled = incoming.Credential.IsEnabled
	u.Credential.IsAccountNonExpired = incoming.Credential.IsAccountNonExpired
	u.Credential.IsAccountNonLocked = incoming.Credential.IsAccountNonLocked
	u.Credential.IsCredentialsNonExpired = incoming.Credential.IsCredentialsNonExpired
}
