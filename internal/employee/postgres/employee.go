package postgres

import (
	"database/sql"
	"errors"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/employee"
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

func (r *Repository) GetByOrganisation(organisationID string) ([]*employee.Employee, error) {
	var employees []*employee.Employee
	err := r.db.Raw(
		`SELECT id, organisation_id, first_name, last_name, email, position, department, hire_date, created_at, updated_at
		 FROM employees
		 WHERE organisation_id = ?
		 ORDER BY created_at DESC`, organisationID).Scan(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *Repository) GetByIDAndOrganisation(id, organisationID string) (*employee.Employee, error) {
	var emp employee.Employee
	err := r.db.Where("id = ? AND organisation_id = ?", id, organisationID).First(&emp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *Repository) GetTeamsForEmployee(employeeID, organisationID string) ([]employee.TeamRef, error) {
	var teams []employee.TeamRef
	err := r.db.Raw(
		`SELECT t.id, t.name
		 FROM teams t
		 JOIN employee_teams et ON et.team_id = t.id
		 WHERE et.employee_id = ? AND t.organisation_id = ?
		 ORDER BY t.name`, employeeID, organisationID).Scan(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *Repository) EmailExists(email, organisationID string) (bool, error) {
	var one int
	row := r.db.Raw(
		`SELECT 1 FROM employees WHERE email = ? AND organisation_id = ? LIMIT 1`,
		email, organisationID).Row()
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) Create(emp *employee.Employee) error {
	return r.db.Create(emp).Error
}

func (r *Repository) Update(emp *employee.Employee) error {
	return r.db.Exec(
		`UPDATE employees
		 SET first_name = ?, last_name = ?, email = ?, position = ?, department = ?, hire_date = ?, updated_at = ?
		 WHERE id = ?`,
		emp.FirstName, emp.LastName, emp.Email, emp.Position, emp.Department, emp.HireDate, emp.UpdatedAt, emp.ID).Error
}

func (r *Repository) Delete(id string) error {
	return r.db.Exec(`DELETE FROM employees WHERE id = ?`, id).Error
}

func (r *Repository) TeamExistsInOrganisation(teamID, organisationID string) (bool, error) {
	var one int
	row := r.db.Raw(
		`SELECT 1 FROM teams WHERE id = ? AND organisation_id = ? LIMIT 1`,
		teamID, organisationID).Row()
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateAssignment relies on the unique (employee_id, team_id) constraint to
// reject duplicates, so concurrent assigns cannot race past a pre-check.
func (r *Repository) CreateAssignment(a *employee.Assignment) error {
	err := r.db.Create(a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrDuplicateAssignment
		}
		return err
	}
	return nil
}

// DeleteAssignment verifies tenant ownership of both sides inside the DELETE
// itself rather than with separate lookups.
func (r *Repository) DeleteAssignment(employeeID, teamID, organisationID string) (int64, error) {
	res := r.db.Exec(
		`DELETE FROM employee_teams
		 WHERE employee_id = ? AND team_id = ?
		   AND EXISTS (SELECT 1 FROM employees e WHERE e.id = employee_teams.employee_id AND e.organisation_id = ?)
		   AND EXISTS (SELECT 1 FROM teams t WHERE t.id = employee_teams.team_id AND t.organisation_id = ?)`,
		employeeID, teamID, organisationID, organisationID)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
