package employee

import (
	"time"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/core/common/validation"
)

// EmployeeDTO is the request payload for create and update. hire_date is an
// optional YYYY-MM-DD string.
type EmployeeDTO struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Email      string  `json:"email"`
	Position   *string `json:"position,omitempty"`
	Department *string `json:"department,omitempty"`
	HireDate   *string `json:"hire_date,omitempty"`
}

func (d EmployeeDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("first_name", d.FirstName).Required().MinLength(1).MaxLength(255)
	v.Field("last_name", d.LastName).Required().MinLength(1).MaxLength(255)
	v.Field("email", d.Email).Required().Email()
	v.Field("position", d.Position).MaxLength(255)
	v.Field("department", d.Department).MaxLength(255)
	v.Field("hire_date", d.HireDate).Date()
	return v.Validate()
}

// HireDateTime parses the optional hire date. Validate must have passed.
func (d EmployeeDTO) HireDateTime() *DateOnly {
	if d.HireDate == nil || *d.HireDate == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *d.HireDate)
	if err != nil {
		return nil
	}
	date := DateOnly(t)
	return &date
}
