package employee

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
)

// Repository is the persistence surface for employees and their team
// memberships. Every read and write is scoped to one organisation.
type Repository interface {
	GetByOrganisation(organisationID string) ([]*Employee, error)
	// GetByIDAndOrganisation returns (nil, nil) when no row matches.
	GetByIDAndOrganisation(id, organisationID string) (*Employee, error)
	GetTeamsForEmployee(employeeID, organisationID string) ([]TeamRef, error)
	EmailExists(email, organisationID string) (bool, error)
	Create(emp *Employee) error
	Update(emp *Employee) error
	Delete(id string) error

	TeamExistsInOrganisation(teamID, organisationID string) (bool, error)
	// CreateAssignment returns internal.ErrDuplicateAssignment when the
	// (employee_id, team_id) pair already exists.
	CreateAssignment(a *Assignment) error
	// DeleteAssignment removes the membership only when both sides belong
	// to the organisation, returning the number of rows removed.
	DeleteAssignment(employeeID, teamID, organisationID string) (int64, error)
}

type AuditRecorder interface {
	Record(entry audit.Entry)
}

type Service struct {
	repo     Repository
	recorder AuditRecorder
	logger   *slog.Logger
}

func NewService(repo Repository, recorder AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

// ListEmployees returns every employee in the caller's organisation with
// their team memberships attached.
func (s *Service) ListEmployees(principal *internal.Principal) ([]*Employee, error) {
	employees, err := s.repo.GetByOrganisation(principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err, "organisation_id", principal.OrganisationID)
		return nil, internal.NewInternalError("Failed to fetch employees", err)
	}

	for _, emp := range employees {
		teams, err := s.repo.GetTeamsForEmployee(emp.ID, principal.OrganisationID)
		if err != nil {
			s.logger.Error("failed to load teams for employee", "error", err, "employee_id", emp.ID)
			return nil, internal.NewInternalError("Failed to fetch employees", err)
		}
		if teams == nil {
			teams = []TeamRef{}
		}
		emp.Teams = teams
	}

	if employees == nil {
		employees = []*Employee{}
	}
	return employees, nil
}

// CreateEmployee adds an employee; the email must be unique within the
// organisation only.
func (s *Service) CreateEmployee(principal *internal.Principal, dto EmployeeDTO, meta audit.RequestMeta) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err)
		return nil, err
	}

	exists, err := s.repo.EmailExists(dto.Email, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to check employee email", "error", err)
		return nil, internal.NewInternalError("Failed to create employee", err)
	}
	if exists {
		return nil, internal.ErrDuplicateEmployee
	}

	now := time.Now()
	emp := &Employee{
		ID:             uuid.NewString(),
		OrganisationID: principal.OrganisationID,
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		Email:          dto.Email,
		Position:       dto.Position,
		Department:     dto.Department,
		HireDate:       dto.HireDateTime(),
		CreatedAt:      now,
		UpdatedAt:      now,
		Teams:          []TeamRef{},
	}
	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "organisation_id", principal.OrganisationID)
		return nil, internal.NewInternalError("Failed to create employee", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionCreate,
		ResourceType:   audit.ResourceEmployee,
		ResourceID:     emp.ID,
		Details:        dto,
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("employee created", "employee_id", emp.ID, "organisation_id", principal.OrganisationID)
	return emp, nil
}

// UpdateEmployee replaces the mutable fields of an employee the caller's
// organisation owns.
func (s *Service) UpdateEmployee(principal *internal.Principal, employeeID string, dto EmployeeDTO, meta audit.RequestMeta) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err)
		return nil, err
	}

	emp, err := s.repo.GetByIDAndOrganisation(employeeID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to fetch employee", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("Failed to update employee", err)
	}
	if emp == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	emp.FirstName = dto.FirstName
	emp.LastName = dto.LastName
	emp.Email = dto.Email
	emp.Position = dto.Position
	emp.Department = dto.Department
	emp.HireDate = dto.HireDateTime()
	emp.UpdatedAt = time.Now()

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("Failed to update employee", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionUpdate,
		ResourceType:   audit.ResourceEmployee,
		ResourceID:     emp.ID,
		Details:        dto,
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("employee updated", "employee_id", emp.ID)
	return emp, nil
}

// DeleteEmployee removes an employee the caller's organisation owns. Team
// memberships go with it through the storage-level cascade.
func (s *Service) DeleteEmployee(principal *internal.Principal, employeeID string, meta audit.RequestMeta) error {
	emp, err := s.repo.GetByIDAndOrganisation(employeeID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to fetch employee", "error", err, "employee_id", employeeID)
		return internal.NewInternalError("Failed to delete employee", err)
	}
	if emp == nil {
		return internal.ErrEmployeeNotFound
	}

	if err := s.repo.Delete(emp.ID); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", employeeID)
		return internal.NewInternalError("Failed to delete employee", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionDelete,
		ResourceType:   audit.ResourceEmployee,
		ResourceID:     emp.ID,
		Details:        map[string]string{"email": emp.Email, "first_name": emp.FirstName, "last_name": emp.LastName},
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("employee deleted", "employee_id", emp.ID)
	return nil
}

// AssignToTeam creates a membership between an employee and a team, both of
// which must belong to the caller's organisation.
func (s *Service) AssignToTeam(principal *internal.Principal, employeeID, teamID string, meta audit.RequestMeta) error {
	emp, err := s.repo.GetByIDAndOrganisation(employeeID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to fetch employee", "error", err, "employee_id", employeeID)
		return internal.NewInternalError("Failed to assign employee to team", err)
	}
	if emp == nil {
		return internal.ErrEmployeeNotFound
	}

	teamExists, err := s.repo.TeamExistsInOrganisation(teamID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to check team", "error", err, "team_id", teamID)
		return internal.NewInternalError("Failed to assign employee to team", err)
	}
	if !teamExists {
		return internal.ErrTeamNotFound
	}

	assignment := &Assignment{
		ID:           uuid.NewString(),
		EmployeeID:   employeeID,
		TeamID:       teamID,
		AssignedDate: time.Now(),
	}
	if err := s.repo.CreateAssignment(assignment); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		s.logger.Error("failed to create assignment", "error", err, "employee_id", employeeID, "team_id", teamID)
		return internal.NewInternalError("Failed to assign employee to team", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionAssign,
		ResourceType:   audit.ResourceEmployeeTeam,
		ResourceID:     assignment.ID,
		Details:        map[string]string{"employee_id": employeeID, "team_id": teamID},
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("employee assigned to team", "employee_id", employeeID, "team_id", teamID)
	return nil
}

// RemoveFromTeam deletes a membership. One conditional statement both checks
// tenant ownership and removes the row, so a missing membership and a
// cross-organisation id are the same outcome.
func (s *Service) RemoveFromTeam(principal *internal.Principal, employeeID, teamID string, meta audit.RequestMeta) error {
	rows, err := s.repo.DeleteAssignment(employeeID, teamID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to delete assignment", "error", err, "employee_id", employeeID, "team_id", teamID)
		return internal.NewInternalError("Failed to remove employee from team", err)
	}
	if rows == 0 {
		return internal.ErrAssignmentNotFound
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionUnassign,
		ResourceType:   audit.ResourceEmployeeTeam,
		ResourceID:     employeeID + ":" + teamID,
		Details:        map[string]string{"employee_id": employeeID, "team_id": teamID},
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("employee removed from team", "employee_id", employeeID, "team_id", teamID)
	return nil
}
