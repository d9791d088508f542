package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itledger/itledger/internal/scope"
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

func buildConditions(filter scope.Filter, req ListRequest) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !filter.All {
		args = append(args, filter.ProjectIDs)
		conds = append(conds, fmt.Sprintf("project_id = ANY($%d)", len(args)))
	}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(tag ILIKE $%d OR serial ILIKE $%d OR model ILIKE $%d)", n, n, n))
	}
	if req.Status != "" {
		args = append(args, req.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListAssets returns a page of assets matching the scope filter and request.
func (r *PGRepository) ListAssets(ctx context.Context, filter scope.Filter, req ListRequest) ([]Asset, error) {
	where, args := buildConditions(filter, req)
	page := shared.NewPagination(req.Page, req.PerPage, 0)
	args = append(args, page.PerPage, page.Offset())
	query := fmt.Sprintf(
		`SELECT id, project_id, tag, serial, model, status, assigned_to, created_at, updated_at
		 FROM assets%s ORDER BY tag LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assets []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Tag, &a.Serial, &a.Model, &a.Status, &a.AssignedTo, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assets, nil
}

// CountAssets returns the total matching the scope filter and request.
func (r *PGRepository) CountAssets(ctx context.Context, filter scope.Filter, req ListRequest) (int, error) {
	where, args := buildConditions(filter, req)
	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM assets"+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GetAsset fetches an asset by ID, without visibility checks; the service
// layer decides whether the caller may see it.
func (r *PGRepository) GetAsset(ctx context.Context, id int64) (Asset, error) {
	var a Asset
	err := r.pool.QueryRow(ctx,
		`SELECT id, project_id, tag, serial, model, status, assigned_to, created_at, updated_at FROM assets WHERE id = $1`, id).
		Scan(&a.ID, &a.ProjectID, &a.Tag, &a.Serial, &a.Model, &a.Status, &a.AssignedTo, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, shared.ErrNotFound
		}
		return Asset{}, err
	}
	return a, nil
}

var _ Repository = (*PGRepository)(nil)
