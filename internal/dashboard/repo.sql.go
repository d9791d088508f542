package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itledger/itledger/internal/scope"
)

// PGRepository provides PostgreSQL backed aggregation.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// AssetCountsByStatus groups asset counts by status under the scope filter.
func (r *PGRepository) AssetCountsByStatus(ctx context.Context, filter scope.Filter) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM assets GROUP BY status`
	args := []any{}
	if !filter.All {
		query = `SELECT status, COUNT(*) FROM assets WHERE project_id = ANY($1) GROUP BY status`
		args = append(args, filter.ProjectIDs)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

var _ Repository = (*PGRepository)(nil)
