package permissions

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itledger/itledger/internal/platform/db"
)

// PGRepository provides PostgreSQL backed persistence for explicit grants.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetPermissions returns the explicit grant set ordered by permission name.
func (r *PGRepository) GetPermissions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT permission FROM user_permissions WHERE user_id = $1 ORDER BY permission`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// HasPermission reports whether the grant row exists.
func (r *PGRepository) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_permissions WHERE user_id = $1 AND permission = $2)`,
		userID, permission).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// Grant inserts a grant, ignoring duplicates.
func (r *PGRepository) Grant(ctx context.Context, userID int64, permission string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2) ON CONFLICT (user_id, permission) DO NOTHING`,
		userID, permission)
	return err
}

// Revoke deletes a grant, ignoring missing rows.
func (r *PGRepository) Revoke(ctx context.Context, userID int64, permission string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_permissions WHERE user_id = $1 AND permission = $2`,
		userID, permission)
	return err
}

// Replace swaps the grant set inside one transaction. Concurrent readers never
// observe a partially replaced set.
func (r *PGRepository) Replace(ctx context.Context, userID int64, permissions []string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT permission FROM user_permissions WHERE user_id = $1 FOR UPDATE`, userID)
		if err != nil {
			return err
		}
		existing := make(map[string]struct{})
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return err
			}
			existing[p] = struct{}{}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		keep := make(map[string]struct{}, len(permissions))
		for _, p := range permissions {
			keep[p] = struct{}{}
			if _, ok := existing[p]; !ok {
				if _, err := tx.Exec(ctx,
					`INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)`,
					userID, p); err != nil {
					return err
				}
			}
		}
		for p := range existing {
			if _, ok := keep[p]; !ok {
				if _, err := tx.Exec(ctx,
					`DELETE FROM user_permissions WHERE user_id = $1 AND permission = $2`,
					userID, p); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

var _ Repository = (*PGRepository)(nil)
