package permissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// Service orchestrates explicit grant operations.
//
// The explicit grant store is the only source the live authorization path
// reads. Role defaults are applied exactly twice in an account's life: when it
// is provisioned and when an administrator requests an explicit reset.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetPermissions returns the explicit grant set; empty for unknown users.
func (s *Service) GetPermissions(ctx context.Context, userID int64) ([]string, error) {
	return s.repo.GetPermissions(ctx, userID)
}

// HasPermission reports whether the explicit grant exists. Unknown users and
// ungranted permissions both read as false; callers treat false as forbidden.
func (s *Service) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	return s.repo.HasPermission(ctx, userID, normalize(permission))
}

// Grant adds a grant. Granting an existing grant is a no-op.
func (s *Service) Grant(ctx context.Context, userID int64, permission string) error {
	permission = normalize(permission)
	if !authz.ValidPermission(permission) {
		return fmt.Errorf("%w: %q", shared.ErrUnknownPermission, permission)
	}
	return s.repo.Grant(ctx, userID, permission)
}

// Revoke removes a grant. Revoking a missing grant is a no-op.
func (s *Service) Revoke(ctx context.Context, userID int64, permission string) error {
	permission = normalize(permission)
	if !authz.ValidPermission(permission) {
		return fmt.Errorf("%w: %q", shared.ErrUnknownPermission, permission)
	}
	return s.repo.Revoke(ctx, userID, permission)
}

// SetAll replaces the grant set atomically. The whole batch is validated
// against the catalog before anything mutates.
func (s *Service) SetAll(ctx context.Context, userID int64, perms []string) error {
	deduped := make([]string, 0, len(perms))
	seen := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = normalize(p)
		if !authz.ValidPermission(p) {
			return fmt.Errorf("%w: %q", shared.ErrUnknownPermission, p)
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		deduped = append(deduped, p)
	}
	return s.repo.Replace(ctx, userID, deduped)
}

// SeedDefaults writes the role's default permission set for a new account.
func (s *Service) SeedDefaults(ctx context.Context, userID int64, role authz.Role) error {
	return s.repo.Replace(ctx, userID, authz.DefaultPermissionsFor(role))
}

// ResetToDefaults discards explicit grants and re-applies the role defaults.
func (s *Service) ResetToDefaults(ctx context.Context, userID int64, role authz.Role) error {
	if !role.Valid() {
		return fmt.Errorf("permissions: cannot reset to defaults of unknown role %q", role)
	}
	return s.repo.Replace(ctx, userID, authz.DefaultPermissionsFor(role))
}

func normalize(p string) string {
	return strings.ToLower(strings.TrimSpace(p))
}
