package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itledger/itledger/internal/scope"
)

type fixedResolver struct {
	scope scope.AccessScope
}

func (f fixedResolver) Resolve(ctx context.Context, userID int64) (scope.AccessScope, error) {
	return f.scope, nil
}

type countingRepo struct {
	counts map[string]int
	loads  int
}

func (r *countingRepo) AssetCountsByStatus(ctx context.Context, filter scope.Filter) (map[string]int, error) {
	r.loads++
	out := make(map[string]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out, nil
}

func newCacheForTest(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
}

func TestSummarizeCachesPerScope(t *testing.T) {
	repo := &countingRepo{counts: map[string]int{"in_use": 3, "in_stock": 2}}
	cache := newCacheForTest(t)
	svc := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{1})}, cache)
	ctx := context.Background()

	first, err := svc.Summarize(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, first.TotalAssets)
	assert.Equal(t, 1, repo.loads)

	// Second call for the same scope hits the cache.
	second, err := svc.Summarize(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.loads)
}

func TestSummarizeScopesDoNotShareCacheEntries(t *testing.T) {
	repo := &countingRepo{counts: map[string]int{"in_use": 1}}
	cache := newCacheForTest(t)
	ctx := context.Background()

	restricted := NewService(repo, fixedResolver{scope: scope.Restricted([]int64{1})}, cache)
	unrestricted := NewService(repo, fixedResolver{scope: scope.Unrestricted()}, cache)

	_, err := restricted.Summarize(ctx, 10)
	require.NoError(t, err)
	_, err = unrestricted.Summarize(ctx, 11)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.loads, "different scopes must load separately")
}

func TestSummarizeEmptyScopeSkipsStoreAndCache(t *testing.T) {
	repo := &countingRepo{counts: map[string]int{"in_use": 9}}
	cache := newCacheForTest(t)
	svc := NewService(repo, fixedResolver{scope: scope.Restricted(nil)}, cache)

	summary, err := svc.Summarize(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalAssets)
	assert.Empty(t, summary.AssetsByStatus)
	assert.Zero(t, repo.loads)
}

func TestInvalidateBumpsVersion(t *testing.T) {
	repo := &countingRepo{counts: map[string]int{"in_use": 1}}
	cache := newCacheForTest(t)
	svc := NewService(repo, fixedResolver{scope: scope.Unrestricted()}, cache)
	ctx := context.Background()

	_, err := svc.Summarize(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx))

	repo.counts["in_use"] = 7
	summary, err := svc.Summarize(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, summary.TotalAssets)
	assert.Equal(t, 2, repo.loads)
}

func TestSummarizeWithoutRedisDegradesToLoader(t *testing.T) {
	repo := &countingRepo{counts: map[string]int{"retired": 4}}
	svc := NewService(repo, fixedResolver{scope: scope.Unrestricted()}, NewCache(nil, time.Minute))

	summary, err := svc.Summarize(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalAssets)
}
