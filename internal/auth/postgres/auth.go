package postgres

import (
	"database/sql"
	"errors"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/auth"
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

func (r *Repository) OrganisationNameExists(name string) (bool, error) {
	var one int
	row := r.db.Raw(`SELECT 1 FROM organisations WHERE name = ? LIMIT 1`, name).Row()
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UserEmailExists checks across all organisations: registration enforces
// global email uniqueness even though the schema only requires per-tenant.
func (r *Repository) UserEmailExists(email string) (bool, error) {
	var one int
	row := r.db.Raw(`SELECT 1 FROM users WHERE email = ? LIMIT 1`, email).Row()
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Repository) CreateOrganisation(org *auth.Organisation) error {
	return r.db.Create(org).Error
}

func (r *Repository) CreateUser(user *auth.User) error {
	return r.db.Create(user).Error
}

func (r *Repository) GetUserForLogin(email, organisationName string) (*auth.User, string, error) {
	var user auth.User
	var orgName string

	row := r.db.Raw(
		`SELECT u.id, u.organisation_id, u.email, u.password_hash, u.name, u.role, o.name
		 FROM users u
		 JOIN organisations o ON u.organisation_id = o.id
		 WHERE u.email = ? AND o.name = ?`, email, organisationName).Row()

	err := row.Scan(&user.ID, &user.OrganisationID, &user.Email, &user.PasswordHash, &user.Name, &user.Role, &orgName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &user, orgName, nil
}

func (r *Repository) GetPrincipalByID(userID string) (*internal.Principal, error) {
	var p internal.Principal

	row := r.db.Raw(
		`SELECT u.id, u.organisation_id, u.email, u.name, u.role, o.name
		 FROM users u
		 JOIN organisations o ON u.organisation_id = o.id
		 WHERE u.id = ?`, userID).Row()

	err := row.Scan(&p.UserID, &p.OrganisationID, &p.Email, &p.Name, &p.Role, &p.OrganisationName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
