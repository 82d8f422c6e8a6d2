package employee

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateOnly is a calendar date without a time component. It marshals as
// YYYY-MM-DD so the API echoes hire dates exactly as submitted.
type DateOnly time.Time

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format("2006-01-02"))
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = DateOnly(t)
	return nil
}

func (d DateOnly) Value() (driver.Value, error) {
	return time.Time(d), nil
}

func (d *DateOnly) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		*d = DateOnly(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", value)
	}
}

func (d *DateOnly) scanString(s string) error {
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = DateOnly(t)
	return nil
}

// Employee is HR data, not a login principal; it carries no credentials.
type Employee struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganisationID string    `json:"organisation_id" gorm:"column:organisation_id;not null"`
	FirstName      string    `json:"first_name" gorm:"column:first_name;not null"`
	LastName       string    `json:"last_name" gorm:"column:last_name;not null"`
	Email          string    `json:"email" gorm:"not null"`
	Position       *string   `json:"position"`
	Department     *string   `json:"department"`
	HireDate       *DateOnly `json:"hire_date" gorm:"column:hire_date;type:date"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`

	// Teams is filled per row when listing; not a stored column.
	Teams []TeamRef `json:"teams" gorm:"-"`
}

func (Employee) TableName() string {
	return "employees"
}

// TeamRef is the slim team shape embedded in employee listings.
type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Assignment is one employee/team membership. The (employee_id, team_id)
// pair is unique at the storage layer.
type Assignment struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	EmployeeID   string    `json:"employee_id" gorm:"column:employee_id;not null"`
	TeamID       string    `json:"team_id" gorm:"column:team_id;not null"`
	AssignedDate time.Time `json:"assigned_date" gorm:"column:assigned_date"`
}

func (Assignment) TableName() string {
	return "employee_teams"
}
