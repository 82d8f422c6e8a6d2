package team

import (
	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/core/common/validation"
)

// TeamDTO is the request payload for create and update.
type TeamDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (d TeamDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MinLength(1).MaxLength(255)
	v.Field("description", d.Description).MaxLength(1000)
	return v.Validate()
}
