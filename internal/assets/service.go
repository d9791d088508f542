package assets

import (
	"context"
	"fmt"

	"github.com/itledger/itledger/internal/scope"
	"github.com/itledger/itledger/internal/shared"
)

// ScopeResolver computes the caller's live access scope.
type ScopeResolver interface {
	Resolve(ctx context.Context, userID int64) (scope.AccessScope, error)
}

// Service handles asset queries under the caller's access scope.
//
// Scope is resolved exactly once per request and narrowed here; the repository
// only ever sees the resulting filter.
type Service struct {
	repo     Repository
	resolver ScopeResolver
}

// NewService builds a Service instance.
func NewService(repo Repository, resolver ScopeResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// List returns the assets visible to the caller, merged with their filters.
// An empty restricted scope short-circuits to an empty page: no query runs.
func (s *Service) List(ctx context.Context, callerID int64, req ListRequest) (ListResult, error) {
	accessScope, err := s.resolver.Resolve(ctx, callerID)
	if err != nil {
		return ListResult{}, err
	}
	filter, err := accessScope.Narrow(req.ProjectID)
	if err != nil {
		return ListResult{}, err
	}
	if filter.None {
		return ListResult{
			Assets:     []Asset{},
			Pagination: shared.NewPagination(req.Page, req.PerPage, 0),
		}, nil
	}
	total, err := s.repo.CountAssets(ctx, filter, req)
	if err != nil {
		return ListResult{}, err
	}
	list, err := s.repo.ListAssets(ctx, filter, req)
	if err != nil {
		return ListResult{}, err
	}
	if list == nil {
		list = []Asset{}
	}
	return ListResult{
		Assets:     list,
		Pagination: shared.NewPagination(req.Page, req.PerPage, total),
	}, nil
}

// Get fetches one asset if the caller's scope may see its project. An
// out-of-scope asset is forbidden, not hidden as missing.
func (s *Service) Get(ctx context.Context, callerID, assetID int64) (Asset, error) {
	accessScope, err := s.resolver.Resolve(ctx, callerID)
	if err != nil {
		return Asset{}, err
	}
	asset, err := s.repo.GetAsset(ctx, assetID)
	if err != nil {
		return Asset{}, err
	}
	if !accessScope.Allows(asset.ProjectID) {
		return Asset{}, fmt.Errorf("%w: asset %d outside access scope", shared.ErrForbidden, assetID)
	}
	return asset, nil
}
