package users

import (
	"context"
	"time"

	"github.com/itledger/itledger/internal/authz"
)

// User represents a user account.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         authz.Role `json:"role"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	CreateUser(ctx context.Context, email, name, passwordHash string, role authz.Role) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id int64, role authz.Role) error
	SetActive(ctx context.Context, id int64, active bool) error
	// AccountStatus returns the live role and active flag; shared.ErrNotFound
	// when the account does not exist. Used by scope resolution on every request.
	AccountStatus(ctx context.Context, id int64) (authz.Role, bool, error)
}
