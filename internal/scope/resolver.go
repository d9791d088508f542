package scope

import (
	"context"
	"errors"

	"log/slog"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// AccountSource looks up the live role and active flag for an account.
// Implementations return shared.ErrNotFound for unknown users.
type AccountSource interface {
	AccountStatus(ctx context.Context, userID int64) (authz.Role, bool, error)
}

// MembershipSource looks up the live project membership for an account.
type MembershipSource interface {
	MembershipOf(ctx context.Context, userID int64) ([]int64, error)
}

// Resolver computes the per-request AccessScope from the live store. It is the
// single place the unrestricted / restricted / empty branching lives; scoped
// repositories consume the narrowed Filter and never re-derive it.
//
// Resolution always reads the store, never the token: a role downgrade or a
// deleted account takes effect on the next request, while the permission
// snapshot in the token stays frozen until expiry.
type Resolver struct {
	accounts    AccountSource
	memberships MembershipSource
	logger      *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(accounts AccountSource, memberships MembershipSource, logger *slog.Logger) *Resolver {
	return &Resolver{accounts: accounts, memberships: memberships, logger: logger}
}

// Resolve computes the caller's scope. A missing or deactivated account
// resolves to restricted-to-nothing: fail-closed, never an error-shaped allow.
func (r *Resolver) Resolve(ctx context.Context, userID int64) (AccessScope, error) {
	role, active, err := r.accounts.AccountStatus(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			if r.logger != nil {
				r.logger.Warn("scope resolution for unknown account", slog.Int64("user_id", userID))
			}
			return Restricted(nil), nil
		}
		return AccessScope{}, err
	}
	if !active {
		return Restricted(nil), nil
	}
	if CanSeeAllData(role) {
		return Unrestricted(), nil
	}
	ids, err := r.memberships.MembershipOf(ctx, userID)
	if err != nil {
		return AccessScope{}, err
	}
	return Restricted(ids), nil
}
