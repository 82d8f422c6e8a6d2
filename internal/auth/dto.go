package auth

import (
	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/core/common/validation"
)

// RegisterDTO is the transport shape for creating an organisation together
// with its first (admin) user.
type RegisterDTO struct {
	OrganisationName string `json:"organisation_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
}

func (d RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("organisation_name", d.OrganisationName).Required().MinLength(2).MaxLength(255)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(6)
	v.Field("name", d.Name).Required().MinLength(2).MaxLength(255)
	return v.Validate()
}

// LoginDTO requires the organisation name as a discriminator: the same email
// may exist in multiple organisations.
type LoginDTO struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganisationName string `json:"organisation_name"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	v.Field("organisation_name", d.OrganisationName).Required()
	return v.Validate()
}

// UserView is the API shape for an authenticated user.
type UserView struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Role             string `json:"role"`
	OrganisationName string `json:"organisation_name"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}
