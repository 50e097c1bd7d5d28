package user

import (
	"github.com/ecommerce/backend/internal/domain/user"
)

// UserDTO is the wire shape of a user
type UserDTO struct {
	UserID     int            `json:"userId"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	ImageURL   string         `json:"imageUrl"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Credential *CredentialDTO `json:"credential,omitempty"`
}

// CredentialDTO is the wire shape of a credential. The password is accepted
// on writes and never rendered.
type CredentialDTO struct {
	CredentialID            int    `json:"credentialId"`
	Username                string `json:"username"`
	Password                string `json:"password,omitempty"`
	RoleBasedAuthority      string `json:"roleBasedAuthority"`
	IsEnabled               bool   `json:"isEnabled"`
	IsAccountNonExpired     bool   `json:"isAccountNonExpired"`
	IsAccountNonLocked      bool   `json:"isAccountNonLocked"`
	IsCredentialsNonExpired bool   `json:"isCredentialsNonExpired"`
}

// ToUserDTO converts a stored user into its wire shape
func ToUserDTO(u *user.User) *UserDTO {
	dto := &UserDTO{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
		Email:     u.Email,
		Phone:     u.Phone,
	}
	if c := u.Credential; c != nil {
		dto.Credential = &CredentialDTO{
			CredentialID:            c.CredentialID,
			Username:                c.Username,
			RoleBasedAuthority:      string(c.RoleBasedAuthority),
			IsEnabled:               c.IsEnabled,
			IsAccountNonExpired:     c.IsAccountNonExpired,
			IsAccountNonLocked:      c.IsAccountNonLocked,
			IsCredentialsNonExpired: c.IsCredentialsNonExpired,
		}
	}
	return dto
}

// FromUserDTO converts a wire user into the stored shape
func FromUserDTO(dto *UserDTO) (*user.User, error) {
	u := &user.User{
		UserID:    dto.UserID,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		ImageURL:  dto.ImageURL,
		Email:     dto.Email,
		Phone:     dto.Phone,
	}
	if c := dto.Credential; c != nil {
		u.Credential = &user.Credential{
			CredentialID:            c.CredentialID,
			UserID:                  dto.UserID,
			Username:                c.Username,
			Password:                c.Password,
			RoleBasedAuthority:      user.RoleBasedAuthority(c.RoleBasedAuthority),
			IsEnabled:               c.IsEnabled,
			IsAccountNonExpired:     c.IsAccountNonExpired,
			IsAccountNonLocked:      c.IsAccountNonLocked,
			IsCredentialsNonExpired: c.IsCredentialsNonExpired,
		}
		if err := u.Credential.Normalize(); err != nil {
			return nil, err
		}
	}
	return u, nil
}
