package dashboard

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/itledger/itledger/internal/scope"
)

// Repository aggregates asset counts under a scope filter.
type Repository interface {
	AssetCountsByStatus(ctx context.Context, filter scope.Filter) (map[string]int, error)
}

// ScopeResolver computes the caller's live access scope.
type ScopeResolver interface {
	Resolve(ctx context.Context, userID int64) (scope.AccessScope, error)
}

// Summary is the dashboard aggregate for one caller's scope.
type Summary struct {
	AssetsByStatus map[string]int `json:"assetsByStatus"`
	TotalAssets    int            `json:"totalAssets"`
}

// Service computes scope-keyed dashboard aggregates.
//
// Cache entries are keyed by the resolved scope, never shared across scopes: a
// restricted caller must not be served an aggregate computed for an
// unrestricted one.
type Service struct {
	repo     Repository
	resolver ScopeResolver
	cache    *Cache
}

// NewService builds a Service instance.
func NewService(repo Repository, resolver ScopeResolver, cache *Cache) *Service {
	return &Service{repo: repo, resolver: resolver, cache: cache}
}

// Summarize returns asset counts for the caller's scope.
func (s *Service) Summarize(ctx context.Context, callerID int64) (Summary, error) {
	accessScope, err := s.resolver.Resolve(ctx, callerID)
	if err != nil {
		return Summary{}, err
	}
	filter, err := accessScope.Narrow(nil)
	if err != nil {
		return Summary{}, err
	}
	if filter.None {
		return Summary{AssetsByStatus: map[string]int{}}, nil
	}
	return s.fetch(ctx, filter)
}

// Warm precomputes the unrestricted aggregate so the first dashboard hit after
// an invalidation is served from cache.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.fetch(ctx, scope.Filter{All: true})
	return err
}

func (s *Service) fetch(ctx context.Context, filter scope.Filter) (Summary, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "assets", scopeKey(filter))
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		counts, err := s.repo.AssetCountsByStatus(ctx, filter)
		if err != nil {
			return nil, err
		}
		total := 0
		for _, n := range counts {
			total += n
		}
		if counts == nil {
			counts = map[string]int{}
		}
		return Summary{AssetsByStatus: counts, TotalAssets: total}, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

// Invalidate bumps the cache version after asset mutations.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func scopeKey(filter scope.Filter) string {
	if filter.All {
		return "all"
	}
	ids := append([]int64(nil), filter.ProjectIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "p" + strings.Join(parts, ",")
}
