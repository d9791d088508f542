package auth

import (
	"context"
	"time"

	"github.com/itledger/itledger/internal/authz"
)

// User represents an authenticated user account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
	IsActive     bool
}

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	// CreateSession records a login for auditing. Tokens are stateless; the
	// session row is bookkeeping, not a validity check.
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
}

// PermissionSource reads the live explicit grant store. Consulted exactly once
// per login, to snapshot the set into the issued credential.
type PermissionSource interface {
	GetPermissions(ctx context.Context, userID int64) ([]string, error)
}
