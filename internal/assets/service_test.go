package assets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itledger/itledger/internal/scope"
	"github.com/itledger/itledger/internal/shared"
)

type fixedResolver struct {
	scope scope.AccessScope
}

func (f fixedResolver) Resolve(ctx context.Context, userID int64) (scope.AccessScope, error) {
	return f.scope, nil
}

type memoryAssetRepo struct {
	assets  []Asset
	queries int
}

func matches(a Asset, filter scope.Filter, req ListRequest) bool {
	if !filter.All {
		found := false
		for _, id := range filter.ProjectIDs {
			if a.ProjectID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if req.Status != "" && a.Status != req.Status {
		return false
	}
	return true
}

func (r *memoryAssetRepo) ListAssets(ctx context.Context, filter scope.Filter, req ListRequest) ([]Asset, error) {
	r.queries++
	var out []Asset
	for _, a := range r.assets {
		if matches(a, filter, req) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memoryAssetRepo) CountAssets(ctx context.Context, filter scope.Filter, req ListRequest) (int, error) {
	r.queries++
	n := 0
	for _, a := range r.assets {
		if matches(a, filter, req) {
			n++
		}
	}
	return n, nil
}

func (r *memoryAssetRepo) GetAsset(ctx context.Context, id int64) (Asset, error) {
	for _, a := range r.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return Asset{}, shared.ErrNotFound
}

func fixtureRepo() *memoryAssetRepo {
	return &memoryAssetRepo{assets: []Asset{
		{ID: 1, ProjectID: 1, Tag: "LT-0001", Status: "in_use"},
		{ID: 2, ProjectID: 1, Tag: "LT-0002", Status: "in_stock"},
		{ID: 3, ProjectID: 2, Tag: "LT-0003", Status: "in_use"},
	}}
}

func projectID(id int64) *int64 {
	return &id
}

func TestListRestrictedToMembership(t *testing.T) {
	// Scenario: a regular user who is a member of project 1 only.
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{1})})

	result, err := svc.List(context.Background(), 10, ListRequest{})
	require.NoError(t, err)
	require.Len(t, result.Assets, 2)
	for _, a := range result.Assets {
		assert.Equal(t, int64(1), a.ProjectID)
	}
	assert.Equal(t, 2, result.Pagination.Total)
}

func TestListExplicitProjectInScope(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{1})})

	result, err := svc.List(context.Background(), 10, ListRequest{ProjectID: projectID(1)})
	require.NoError(t, err)
	assert.Len(t, result.Assets, 2)
}

func TestListExplicitProjectOutOfScopeForbidden(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{1})})

	_, err := svc.List(context.Background(), 10, ListRequest{ProjectID: projectID(2)})
	require.ErrorIs(t, err, shared.ErrForbidden)
	assert.Zero(t, repo.queries, "forbidden requests must not reach the store")
}

func TestListEmptyScopeShortCircuits(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Restricted(nil)})

	result, err := svc.List(context.Background(), 10, ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, result.Assets)
	assert.Zero(t, result.Pagination.Total)
	assert.Zero(t, repo.queries, "empty scope must not issue any query")
}

func TestListUnrestrictedSeesEverything(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Unrestricted()})

	result, err := svc.List(context.Background(), 10, ListRequest{})
	require.NoError(t, err)
	assert.Len(t, result.Assets, 3)
}

func TestListMergesCallerFilters(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{1})})

	result, err := svc.List(context.Background(), 10, ListRequest{Status: "in_use"})
	require.NoError(t, err)
	require.Len(t, result.Assets, 1)
	assert.Equal(t, "LT-0001", result.Assets[0].Tag)
}

func TestGetOutOfScopeForbiddenNotNotFound(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{1})})

	// Asset 3 exists in project 2; the caller may not see it.
	_, err := svc.Get(context.Background(), 10, 3)
	require.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Get(context.Background(), 10, 404)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetInScope(t *testing.T) {
	repo := fixtureRepo()
	svc := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{2})})

	asset, err := svc.Get(context.Background(), 10, 3)
	require.NoError(t, err)
	assert.Equal(t, "LT-0003", asset.Tag)
}
