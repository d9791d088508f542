package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itledger/itledger/internal/platform/db"
	"github.com/itledger/itledger/internal/shared"
)

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListProjects returns all projects ordered by code.
func (r *PGRepository) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, code, name, created_at FROM projects ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a project by ID.
func (r *PGRepository) GetProject(ctx context.Context, id int64) (Project, error) {
	var p Project
	err := r.pool.QueryRow(ctx, `SELECT id, code, name, created_at FROM projects WHERE id = $1`, id).
		Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, shared.ErrNotFound
		}
		return Project{}, err
	}
	return p, nil
}

// MembershipOf returns the user's project IDs.
func (r *PGRepository) MembershipOf(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT project_id FROM user_projects WHERE user_id = $1 ORDER BY project_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// AddMember inserts a membership, ignoring duplicates.
func (r *PGRepository) AddMember(ctx context.Context, userID, projectID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_projects (user_id, project_id) VALUES ($1, $2) ON CONFLICT (user_id, project_id) DO NOTHING`,
		userID, projectID)
	return err
}

// RemoveMember deletes a membership, ignoring missing rows.
func (r *PGRepository) RemoveMember(ctx context.Context, userID, projectID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM user_projects WHERE user_id = $1 AND project_id = $2`,
		userID, projectID)
	return err
}

// SetMembership swaps the membership set inside one transaction.
func (r *PGRepository) SetMembership(ctx context.Context, userID int64, projectIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM user_projects WHERE user_id = $1`, userID); err != nil {
			return err
		}
		for _, projectID := range projectIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_projects (user_id, project_id) VALUES ($1, $2)`,
				userID, projectID); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ Repository = (*PGRepository)(nil)
