package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicboard/clinicboard/internal/platform/apperr"
	"github.com/clinicboard/clinicboard/internal/platform/auth"
	"github.com/clinicboard/clinicboard/internal/platform/validate"
)

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

// ListProviders returns every DOCTOR user, ordered by name.
func (s *Service) ListProviders(ctx context.Context) ([]*User, error) {
	return s.users.ListByRole(ctx, RoleDoctor, 0)
}

// ListDoctors returns up to limit DOCTOR users.
func (s *Service) ListDoctors(ctx context.Context, limit int) ([]*User, error) {
	return s.users.ListByRole(ctx, RoleDoctor, limit)
}

func (s *Service) CountDoctors(ctx context.Context) (int, error) {
	return s.users.CountByRole(ctx, RoleDoctor)
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// Exists returns a not-found error when no user has the given id.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) error {
	_, err := s.users.GetByID(ctx, id)
	return err
}

// IsProvider reports whether id names a DOCTOR. An unknown id is a
// not-found error.
func (s *Service) IsProvider(ctx context.Context, id uuid.UUID) (bool, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.Role == RoleDoctor, nil
}

// CreateUser creates a staff user on behalf of caller.
func (s *Service) CreateUser(ctx context.Context, caller auth.Caller, in CreateUserInput) (*User, error) {
	if err := caller.Validate(); err != nil {
		return nil, err
	}
	u, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().
		Str("caller_id", caller.UserID.String()).
		Str("user_id", u.ID.String()).
		Str("role", string(u.Role)).
		Msg("user created")
	return u, nil
}

// Seed creates a user without a caller. It backs the operator CLI, which
// bootstraps the first accounts before anyone can authenticate.
func (s *Service) Seed(ctx context.Context, in CreateUserInput) (*User, error) {
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in CreateUserInput) (*User, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = RoleStaff
	}
	if !roles[role] {
		return nil, apperr.Validation("role", "role must be one of: ADMIN DOCTOR NURSE STAFF")
	}
	name := in.Name
	u := &User{Name: &name, Email: in.Email, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
