package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryProjectRepo struct {
	projects    []Project
	memberships map[int64][]int64
	replaces    int
}

func newMemoryProjectRepo() *memoryProjectRepo {
	return &memoryProjectRepo{memberships: make(map[int64][]int64)}
}

func (m *memoryProjectRepo) ListProjects(ctx context.Context) ([]Project, error) {
	return m.projects, nil
}

func (m *memoryProjectRepo) GetProject(ctx context.Context, id int64) (Project, error) {
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, nil
}

func (m *memoryProjectRepo) MembershipOf(ctx context.Context, userID int64) ([]int64, error) {
	return m.memberships[userID], nil
}

func (m *memoryProjectRepo) AddMember(ctx context.Context, userID, projectID int64) error {
	for _, id := range m.memberships[userID] {
		if id == projectID {
			return nil
		}
	}
	m.memberships[userID] = append(m.memberships[userID], projectID)
	return nil
}

func (m *memoryProjectRepo) RemoveMember(ctx context.Context, userID, projectID int64) error {
	kept := m.memberships[userID][:0]
	for _, id := range m.memberships[userID] {
		if id != projectID {
			kept = append(kept, id)
		}
	}
	m.memberships[userID] = kept
	return nil
}

func (m *memoryProjectRepo) SetMembership(ctx context.Context, userID int64, projectIDs []int64) error {
	m.replaces++
	m.memberships[userID] = append([]int64(nil), projectIDs...)
	return nil
}

func TestAddMemberIsIdempotent(t *testing.T) {
	repo := newMemoryProjectRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.AddMember(ctx, 1, 10))
	require.NoError(t, svc.AddMember(ctx, 1, 10))

	ids, err := svc.MembershipOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids)
}

func TestAddMemberRejectsInvalidIDs(t *testing.T) {
	svc := NewService(newMemoryProjectRepo())

	assert.Error(t, svc.AddMember(context.Background(), 0, 10))
	assert.Error(t, svc.AddMember(context.Background(), 1, -5))
}

func TestSetMembershipDedupesAndValidates(t *testing.T) {
	repo := newMemoryProjectRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SetMembership(ctx, 1, []int64{10, 20, 10}))
	assert.Equal(t, []int64{10, 20}, repo.memberships[1])

	err := svc.SetMembership(ctx, 1, []int64{10, 0})
	require.Error(t, err)
	assert.Equal(t, 1, repo.replaces, "invalid batch must not reach the store")
}

func TestSetMembershipAllowsEmptySet(t *testing.T) {
	repo := newMemoryProjectRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.SetMembership(ctx, 1, []int64{10}))
	require.NoError(t, svc.SetMembership(ctx, 1, nil))

	ids, err := svc.MembershipOf(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRemoveMissingMemberIsNoOp(t *testing.T) {
	repo := newMemoryProjectRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.AddMember(ctx, 1, 10))
	require.NoError(t, svc.RemoveMember(ctx, 1, 99))

	ids, err := svc.MembershipOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, ids)
}
