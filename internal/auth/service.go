package auth

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	internal "github.com/frahmantamala/hrms-backend/internal"
	"github.com/frahmantamala/hrms-backend/internal/audit"
)

// Repository is the persistence surface the auth service needs.
type Repository interface {
	OrganisationNameExists(name string) (bool, error)
	UserEmailExists(email string) (bool, error)
	CreateOrganisation(org *Organisation) error
	CreateUser(user *User) error
	// GetUserForLogin resolves a user joined to the named organisation.
	// Returns (nil, "", nil) when no row matches.
	GetUserForLogin(email, organisationName string) (*User, string, error)
	// GetPrincipalByID re-resolves a user id against the store; returns
	// (nil, nil) when the user no longer exists.
	GetPrincipalByID(userID string) (*internal.Principal, error)
}

// AuditRecorder appends audit records; implementations must never fail the
// calling operation.
type AuditRecorder interface {
	Record(entry audit.Entry)
}

// Service performs registration, login, and principal resolution.
type Service struct {
	repo       Repository
	tokens     TokenGenerator
	recorder   AuditRecorder
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, tokens TokenGenerator, recorder AuditRecorder, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		recorder:   recorder,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates the organisation and its first admin user, then issues a
// credential. The organisation name must be globally unique, and so must the
// admin email across all organisations.
func (s *Service) Register(dto RegisterDTO, meta audit.RequestMeta) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("registration validation failed", "error", err)
		return nil, err
	}

	orgExists, err := s.repo.OrganisationNameExists(dto.OrganisationName)
	if err != nil {
		s.logger.Error("failed to check organisation name", "error", err)
		return nil, internal.NewInternalError("Failed to register organisation", err)
	}
	if orgExists {
		return nil, internal.ErrDuplicateOrganisation
	}

	emailExists, err := s.repo.UserEmailExists(dto.Email)
	if err != nil {
		s.logger.Error("failed to check user email", "error", err)
		return nil, internal.NewInternalError("Failed to register organisation", err)
	}
	if emailExists {
		return nil, internal.ErrDuplicateUserEmail
	}

	now := time.Now()
	org := &Organisation{
		ID:        uuid.NewString(),
		Name:      dto.OrganisationName,
		Email:     dto.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateOrganisation(org); err != nil {
		s.logger.Error("failed to create organisation", "error", err, "name", dto.OrganisationName)
		return nil, internal.NewInternalError("Failed to register organisation", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("Failed to register organisation", err)
	}

	// First user of a new organisation is always the admin.
	user := &User{
		ID:             uuid.NewString(),
		OrganisationID: org.ID,
		Email:          dto.Email,
		PasswordHash:   string(hash),
		Name:           dto.Name,
		Role:           RoleAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.CreateUser(user); err != nil {
		s.logger.Error("failed to create admin user", "error", err, "organisation_id", org.ID)
		return nil, internal.NewInternalError("Failed to register organisation", err)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("Failed to register organisation", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionCreate,
		ResourceType:   audit.ResourceOrganisation,
		ResourceID:     org.ID,
		Details:        map[string]string{"organisation_name": org.Name, "admin_email": user.Email, "admin_name": user.Name},
		OrganisationID: org.ID,
		UserID:         user.ID,
		Meta:           meta,
	})

	s.logger.Info("organisation registered", "organisation_id", org.ID, "user_id", user.ID)

	return &AuthResponse{
		Message: "Organisation and user created successfully",
		Token:   token,
		User: UserView{
			ID:               user.ID,
			Email:            user.Email,
			Name:             user.Name,
			Role:             user.Role,
			OrganisationName: org.Name,
		},
	}, nil
}

// Login resolves credentials to a token. A missing user and a wrong password
// are deliberately indistinguishable to the caller.
func (s *Service) Login(dto LoginDTO, meta audit.RequestMeta) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("login validation failed", "error", err)
		return nil, err
	}

	user, orgName, err := s.repo.GetUserForLogin(dto.Email, dto.OrganisationName)
	if err != nil {
		s.logger.Error("failed to look up user", "error", err)
		return nil, internal.NewInternalError("Failed to login", err)
	}
	if user == nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err, "user_id", user.ID)
		return nil, internal.NewInternalError("Failed to login", err)
	}

	s.recorder.Record(audit.Entry{
		Action:         audit.ActionLogin,
		ResourceType:   audit.ResourceUser,
		ResourceID:     user.ID,
		Details:        map[string]string{},
		OrganisationID: user.OrganisationID,
		UserID:         user.ID,
		Meta:           meta,
	})

	s.logger.Info("user logged in", "user_id", user.ID, "organisation_id", user.OrganisationID)

	return &AuthResponse{
		Message: "Login successful",
		Token:   token,
		User: UserView{
			ID:               user.ID,
			Email:            user.Email,
			Name:             user.Name,
			Role:             user.Role,
			OrganisationName: orgName,
		},
	}, nil
}

// Logout only records the event; the token stays valid until expiry.
func (s *Service) Logout(principal *internal.Principal, meta audit.RequestMeta) {
	s.recorder.Record(audit.Entry{
		Action:         audit.ActionLogout,
		ResourceType:   audit.ResourceUser,
		ResourceID:     principal.UserID,
		Details:        map[string]string{},
		OrganisationID: principal.OrganisationID,
		UserID:         principal.UserID,
		Meta:           meta,
	})
}

// ValidateAccessToken validates the credential's signature and expiry.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

// ResolvePrincipal re-reads the user from the store rather than trusting the
// token's claims, so deleted users are rejected immediately.
func (s *Service) ResolvePrincipal(userID string) (*internal.Principal, error) {
	principal, err := s.repo.GetPrincipalByID(userID)
	if err != nil {
		s.logger.Error("failed to resolve principal", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Failed to resolve user", err)
	}
	if principal == nil {
		return nil, internal.ErrPrincipalNotFound
	}
	return principal, nil
}
