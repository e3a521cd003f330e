package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rutdashboard/rut-dashboard-api/src/logging"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/repositories"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// CreateAdminInput holds the fields of a new administrator
type CreateAdminInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// UpdateAdminInput is a partial update; nil fields are left untouched
type UpdateAdminInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
	IsActive *bool
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Admin *models.Admin `json:"admin"`
	Token string        `json:"token"`
}

// AdminService handles administrator accounts and login
type AdminService struct {
	repo   repositories.AdminRepository
	tokens *TokenService
	now    func() time.Time
	logger zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repo repositories.AdminRepository, tokens *TokenService) *AdminService {
	return &AdminService{
		repo:   repo,
		tokens: tokens,
		now:    time.Now,
		logger: logging.NewLogger("admin_service"),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", NewValidationError("Name is required")
	}
	n := utf8.RuneCountInString(name)
	if n < 2 {
		return "", NewValidationError("Name must be at least 2 characters long")
	}
	if n > 100 {
		return "", NewValidationError("Name cannot exceed 100 characters")
	}
	return name, nil
}

func validateEmail(email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", NewValidationError("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return "", NewValidationError("Please enter a valid email")
	}
	return email, nil
}

func validatePassword(password string) error {
	if password == "" {
		return NewValidationError("Password is required")
	}
	if len(password) < MinPasswordLength {
		return NewValidationError(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	return nil
}

func validateRole(role models.Role) error {
	if !role.Valid() {
		return NewValidationError("Invalid role specified")
	}
	return nil
}

// lookup converts the repository miss into ErrAdminNotFound
func (s *AdminService) lookup(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// emailTaken reports whether email belongs to an administrator other than self
func (s *AdminService) emailTaken(ctx context.Context, email string, self uuid.UUID) (bool, error) {
	existing, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != self, nil
}

// Login verifies credentials and issues a session token.
// Deactivated accounts are rejected before the password is checked.
func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !admin.IsActive {
		return nil, ErrAccountDeactivated
	}

	ok, err := VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("admin_id", admin.ID.String()).Msg("Failed to update last login")
	} else {
		admin.LastLogin = &now
	}

	token, err := s.tokens.Issue(ClaimsFor(admin))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Admin: admin, Token: token}, nil
}

// Create validates input and stores a new active administrator
func (s *AdminService) Create(ctx context.Context, input CreateAdminInput) (*models.Admin, error) {
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}
	email, err := validateEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validateRole(input.Role); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info().Str("admin_id", admin.ID.String()).Str("role", string(admin.Role)).Msg("Admin created")
	return admin, nil
}

func (s *AdminService) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	return s.lookup(ctx, id)
}

// List returns one page of administrators
func (s *AdminService) List(ctx context.Context, opts models.PaginationOptions) (models.Page[models.Admin], error) {
	opts = opts.Normalize()
	admins, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return models.Page[models.Admin]{}, err
	}
	return models.NewPage(admins, opts, total), nil
}

// ListActive returns every active administrator
func (s *AdminService) ListActive(ctx context.Context) ([]models.Admin, error) {
	admins, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []models.Admin{}
	}
	return admins, nil
}

// Update applies a partial update on behalf of actor. A new password is
// hashed before storage. actor may not deactivate itself, and the last
// super administrator may not demote itself.
func (s *AdminService) Update(ctx context.Context, actor, id uuid.UUID, input UpdateAdminInput) (*models.Admin, error) {
	if actor == id {
		if input.IsActive != nil && !*input.IsActive {
			return nil, ErrSelfModification
		}
		if input.Role != nil && *input.Role != models.RoleSuperAdmin {
			if err := s.ensureNotLastSuperAdmin(ctx, id); err != nil {
				return nil, err
			}
		}
	}

	var update models.AdminUpdate

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return nil, err
		}
		update.Name = &name
	}
	if input.Role != nil {
		if err := validateRole(*input.Role); err != nil {
			return nil, err
		}
		update.Role = input.Role
	}
	if input.Email != nil {
		email, err := validateEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		taken, err := s.emailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		update.Email = &email
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		update.PasswordHash = &hash
	}
	update.IsActive = input.IsActive

	admin, err := s.repo.Update(ctx, id, update)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// ensureNotLastSuperAdmin fails when id is the only super administrator left
func (s *AdminService) ensureNotLastSuperAdmin(ctx context.Context, id uuid.UUID) error {
	admin, err := s.lookup(ctx, id)
	if err != nil {
		return err
	}
	if admin.Role != models.RoleSuperAdmin {
		return nil
	}
	count, err := s.repo.CountByRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("failed to count super admins: %w", err)
	}
	if count <= 1 {
		return ErrLastSuperAdmin
	}
	return nil
}

// ChangePassword replaces the password of an administrator
func (s *AdminService) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return NewValidationError(fmt.Sprintf("New password must be at least %d characters long", MinPasswordLength))
	}
	_, err := s.Update(ctx, id, id, UpdateAdminInput{Password: &newPassword})
	return err
}

// Delete removes an administrator. actor may not delete itself.
func (s *AdminService) Delete(ctx context.Context, actor, id uuid.UUID) error {
	if actor == id {
		return ErrSelfModification
	}
	if _, err := s.lookup(ctx, id); err != nil {
		return err
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAdminNotFound
	}
	if err != nil {
		return err
	}

	s.logger.Info().Str("admin_id", id.String()).Str("actor_id", actor.String()).Msg("Admin deleted")
	return nil
}

// ToggleStatus flips the active flag of an administrator. actor may not toggle itself.
func (s *AdminService) ToggleStatus(ctx context.Context, actor, id uuid.UUID) (*models.Admin, error) {
	if actor == id {
		return nil, ErrSelfModification
	}
	admin, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	active := !admin.IsActive
	updated, err := s.repo.Update(ctx, id, models.AdminUpdate{IsActive: &active})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("admin_id", id.String()).
		Str("actor_id", actor.String()).
		Bool("is_active", updated.IsActive).
		Msg("Admin status changed")
	return updated, nil
}

// EnsureSuperAdmin creates a super administrator from the given input when
// none exists yet. It reports whether an account was created.
func (s *AdminService) EnsureSuperAdmin(ctx context.Context, input CreateAdminInput) (bool, error) {
	count, err := s.repo.CountByRole(ctx, models.RoleSuperAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check super admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	input.Role = models.RoleSuperAdmin
	admin, err := s.Create(ctx, input)
	if err != nil {
		return false, fmt.Errorf("failed to create default super admin: %w", err)
	}

	s.logger.Warn().Str("email", admin.Email).Msg("Default super admin created, change its password")
	return true, nil
}
