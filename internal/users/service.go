package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/itledger/itledger/internal/authz"
)

// GrantSeeder applies role-default permissions to an account's explicit grants.
type GrantSeeder interface {
	SeedDefaults(ctx context.Context, userID int64, role authz.Role) error
	ResetToDefaults(ctx context.Context, userID int64, role authz.Role) error
}

// Service handles account provisioning and management.
type Service struct {
	repo   Repository
	grants GrantSeeder
}

// NewService builds a Service instance.
func NewService(repo Repository, grants GrantSeeder) *Service {
	return &Service{repo: repo, grants: grants}
}

// ProvisionUser creates an account and seeds its explicit grants from the role
// defaults. This is the only implicit path from role to grants; afterwards the
// explicit store alone decides what the account may do.
func (s *Service) ProvisionUser(ctx context.Context, email, name, password string, role authz.Role) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return User{}, errors.New("users: email and name required")
	}
	if len(password) < 8 {
		return User{}, errors.New("users: password must be at least 8 characters")
	}
	if !role.Valid() {
		return User{}, errors.New("users: unknown role")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.CreateUser(ctx, email, name, string(hash), role)
	if err != nil {
		return User{}, err
	}
	if err := s.grants.SeedDefaults(ctx, user.ID, role); err != nil {
		return User{}, err
	}
	return user, nil
}

// GetUser fetches an account by ID.
func (s *Service) GetUser(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// ChangeRole updates the account role. Existing explicit grants are left
// untouched; administrators reset them separately when that is the intent.
func (s *Service) ChangeRole(ctx context.Context, id int64, role authz.Role) error {
	if !role.Valid() {
		return errors.New("users: unknown role")
	}
	return s.repo.UpdateRole(ctx, id, role)
}

// ResetPermissions re-applies the account's current role defaults to its
// explicit grants.
func (s *Service) ResetPermissions(ctx context.Context, id int64) error {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	return s.grants.ResetToDefaults(ctx, user.ID, user.Role)
}

// Deactivate disables an account. Outstanding tokens keep their permission
// snapshot until expiry, but scope resolution fails closed immediately.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}

// Activate re-enables an account.
func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, true)
}
