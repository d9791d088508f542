package projects

import (
	"context"
	"time"
)

// Project is the tenant-like scoping unit. Every scoped resource row carries a
// project ID.
type Project struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProject is one explicit membership. The (UserID, ProjectID) pair is unique.
type UserProject struct {
	UserID    int64
	ProjectID int64
	CreatedAt time.Time
}

// Repository defines persistence operations for projects and memberships.
type Repository interface {
	ListProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id int64) (Project, error)
	// MembershipOf returns the user's project IDs, empty when the user has none.
	MembershipOf(ctx context.Context, userID int64) ([]int64, error)
	// AddMember inserts a membership; adding an existing one is a no-op.
	AddMember(ctx context.Context, userID, projectID int64) error
	// RemoveMember deletes a membership; removing a missing one is a no-op.
	RemoveMember(ctx context.Context, userID, projectID int64) error
	// SetMembership swaps the whole membership set atomically.
	SetMembership(ctx context.Context, userID int64, projectIDs []int64) error
}
