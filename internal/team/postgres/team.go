package postgres

import (
	"database/sql"
	"errors"

	"github.com/frahmantamala/hrms-backend/internal/team"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByOrganisation(organisationID string) ([]*team.Team, error) {
	var teams []*team.Team
	err := r.db.Raw(
		`SELECT id, organisation_id, name, description, created_at, updated_at
		 FROM teams
		 WHERE organisation_id = ?
		 ORDER BY created_at DESC`, organisationID).Scan(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *Repository) GetByIDAndOrganisation(id, organisationID string) (*team.Team, error) {
	var t team.Team
	err := r.db.Where("id = ? AND organisation_id = ?", id, organisationID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) GetMembers(teamID, organisationID string) ([]team.MemberRef, error) {
	var members []team.MemberRef
	err := r.db.Raw(
		`SELECT e.id, e.first_name, e.last_name, e.email, e.position
		 FROM employees e
		 JOIN employee_teams et ON et.employee_id = e.id
		 WHERE et.team_id = ? AND e.organisation_id = ?
		 ORDER BY e.last_name, e.first_name`, teamID, organisationID).Scan(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *Repository) NameExists(name, organisationID string) (bool, error) {
	var one int
	row := r.db.Raw(
		`SELECT 1 FROM teams WHERE name = ? AND organisation_id = ? LIMIT 1`,
		name, organisationID).Row()
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) NameExistsExcluding(name, organisationID, excludeID string) (bool, error) {
	var one int
	row := r.db.Raw(
		`SELECT 1 FROM teams WHERE name = ? AND organisation_id = ? AND id != ? LIMIT 1`,
		name, organisationID, excludeID).Row()
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) Create(t *team.Team) error {
	return r.db.Create(t).Error
}

func (r *Repository) Update(t *team.Team) error {
	return r.db.Exec(
		`UPDATE teams SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Description, t.UpdatedAt, t.ID).Error
}

func (r *Repository) Delete(id string) error {
	return r.db.Exec(`DELETE FROM teams WHERE id = ?`, id).Error
}
