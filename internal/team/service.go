package team

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
)

// Repository is the persistence surface for teams, scoped to one
// organisation on every call.
type Repository interface {
	GetByOrganisation(organisationID string) ([]*Team, error)
	// GetByIDAndOrganisation returns (nil, nil) when no row matches.
	GetByIDAndOrganisation(id, organisationID string) (*Team, error)
	GetMembers(teamID, organisationID string) ([]MemberRef, error)
	NameExists(name, organisationID string) (bool, error)
	// NameExistsExcluding ignores the given team id so a team can keep its
	// own name on update.
	NameExistsExcluding(name, organisationID, excludeID string) (bool, error)
	Create(t *Team) error
	Update(t *Team) error
	Delete(id string) error
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

// ListTeams returns every team in the caller's organisation with members and
// member counts attached.
func (s *Service) ListTeams(principal *internal.Principal) ([]*Team, error) {
	teams, err := s.repo.GetByOrganisation(principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to list teams", "error", err, "organisation_id", principal.OrganisationID)
		return nil, internal.NewInternalError("Failed to fetch teams", err)
	}

	for _, t := range teams {
		members, err := s.repo.GetMembers(t.ID, principal.OrganisationID)
		if err != nil {
			s.logger.Error("failed to load team members", "error", err, "team_id", t.ID)
			return nil, internal.NewInternalError("Failed to fetch teams", err)
		}
		if members == nil {
			members = []MemberRef{}
		}
		t.Members = members
		t.MemberCount = len(members)
	}

	if teams == nil {
		teams = []*Team{}
	}
	return teams, nil
}

// CreateTeam adds a team; the name must be unique within the organisation.
func (s *Service) CreateTeam(principal *internal.Principal, dto TeamDTO, meta audit.RequestMeta) (*Team, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("team validation failed", "error", err)
		return nil, err
	}

	exists, err := s.repo.NameExists(dto.Name, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to check team name", "error", err)
		return nil, internal.NewInternalError("Failed to create team", err)
	}
	if exists {
		return nil, internal.ErrDuplicateTeam
	}

	now := time.Now()
	t := &Team{
		ID:             uuid.NewString(),
		OrganisationID: principal.OrganisationID,
		Name:           dto.Name,
		Description:    dto.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
		Members:        []MemberRef{},
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create team", "error", err, "organisation_id", principal.OrganisationID)
		return nil, internal.NewInternalError("Failed to create team", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionCreate,
		ResourceType:   audit.ResourceTeam,
		ResourceID:     t.ID,
		Details:        dto,
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("team created", "team_id", t.ID, "organisation_id", principal.OrganisationID)
	return t, nil
}

// UpdateTeam replaces the mutable fields of a team the caller's organisation
// owns, re-checking name uniqueness against all other teams.
func (s *Service) UpdateTeam(principal *internal.Principal, teamID string, dto TeamDTO, meta audit.RequestMeta) (*Team, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("team validation failed", "error", err)
		return nil, err
	}

	t, err := s.repo.GetByIDAndOrganisation(teamID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to fetch team", "error", err, "team_id", teamID)
		return nil, internal.NewInternalError("Failed to update team", err)
	}
	if t == nil {
		return nil, internal.ErrTeamNotFound
	}

	exists, err := s.repo.NameExistsExcluding(dto.Name, principal.OrganisationID, teamID)
	if err != nil {
		s.logger.Error("failed to check team name", "error", err)
		return nil, internal.NewInternalError("Failed to update team", err)
	}
	if exists {
		return nil, internal.ErrDuplicateTeam
	}

	t.Name = dto.Name
	t.Description = dto.Description
	t.UpdatedAt = time.Now()

	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to update team", "error", err, "team_id", teamID)
		return nil, internal.NewInternalError("Failed to update team", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionUpdate,
		ResourceType:   audit.ResourceTeam,
		ResourceID:     t.ID,
		Details:        dto,
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("team updated", "team_id", t.ID)
	return t, nil
}

// DeleteTeam removes a team the caller's organisation owns. Memberships go
// with it through the storage-level cascade.
func (s *Service) DeleteTeam(principal *internal.Principal, teamID string, meta audit.RequestMeta) error {
	t, err := s.repo.GetByIDAndOrganisation(teamID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to fetch team", "error", err, "team_id", teamID)
		return internal.NewInternalError("Failed to delete team", err)
	}
	if t == nil {
		return internal.ErrTeamNotFound
	}

	if err := s.repo.Delete(t.ID); err != nil {
		s.logger.Error("failed to delete team", "error", err, "team_id", teamID)
		return internal.NewInternalError("Failed to delete team", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionDelete,
		ResourceType:   audit.ResourceTeam,
		ResourceID:     t.ID,
		Details:        map[string]string{"name": t.Name},
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})

	s.logger.Info("team deleted", "team_id", t.ID)
	return nil
}

// ListMembers returns the employees assigned to a team the caller's
// organisation owns.
func (s *Service) ListMembers(principal *internal.Principal, teamID string) ([]MemberRef, error) {
	t, err := s.repo.GetByIDAndOrganisation(teamID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to fetch team", "error", err, "team_id", teamID)
		return nil, internal.NewInternalError("Failed to fetch team members", err)
	}
	if t == nil {
		return nil, internal.ErrTeamNotFound
	}

	members, err := s.repo.GetMembers(teamID, principal.OrganisationID)
	if err != nil {
		s.logger.Error("failed to load team members", "error", err, "team_id", teamID)
		return nil, internal.NewInternalError("Failed to fetch team members", err)
	}
	if members == nil {
		members = []MemberRef{}
	}
	return members, nil
}
