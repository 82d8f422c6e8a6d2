package team

import (
	"time"
)

type Team struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	OrganisationID string    `json:"organisation_id" gorm:"column:organisation_id;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Description    *string   `json:"description"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`

	// Filled per row when listing; not stored columns.
	MemberCount int         `json:"member_count" gorm:"-"`
	Members     []MemberRef `json:"members" gorm:"-"`
}

func (Team) TableName() string {
	return "teams"
}

// MemberRef is the employee shape embedded in team listings.
type MemberRef struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Position  *string `json:"position"`
}
