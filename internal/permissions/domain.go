package permissions

import (
	"context"
	"time"
)

// UserPermission is one explicit grant. The (UserID, Permission) pair is unique.
type UserPermission struct {
	UserID     int64
	Permission string
	CreatedAt  time.Time
}

// Repository defines persistence operations for explicit grants.
type Repository interface {
	// GetPermissions returns the explicit grant set, empty when the user has no rows.
	GetPermissions(ctx context.Context, userID int64) ([]string, error)
	// HasPermission reports whether the specific grant exists. Missing users read as false.
	HasPermission(ctx context.Context, userID int64, permission string) (bool, error)
	// Grant inserts a grant; granting an existing grant is a no-op.
	Grant(ctx context.Context, userID int64, permission string) error
	// Revoke deletes a grant; revoking a missing grant is a no-op.
	Revoke(ctx context.Context, userID int64, permission string) error
	// Replace swaps the whole grant set atomically.
	Replace(ctx context.Context, userID int64, permissions []string) error
}
