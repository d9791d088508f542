package projects

import (
	"context"
	"errors"
)

// Service handles project and membership business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListProjects returns all projects.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	return s.repo.ListProjects(ctx)
}

// GetProject fetches a project by ID.
func (s *Service) GetProject(ctx context.Context, id int64) (Project, error) {
	return s.repo.GetProject(ctx, id)
}

// MembershipOf returns the user's explicit project membership. Membership is
// independent of permissions; a user may hold grants yet see no projects.
func (s *Service) MembershipOf(ctx context.Context, userID int64) ([]int64, error) {
	return s.repo.MembershipOf(ctx, userID)
}

// AddMember adds a user to a project.
func (s *Service) AddMember(ctx context.Context, userID, projectID int64) error {
	if userID <= 0 || projectID <= 0 {
		return errors.New("projects: user and project ids required")
	}
	return s.repo.AddMember(ctx, userID, projectID)
}

// RemoveMember removes a user from a project.
func (s *Service) RemoveMember(ctx context.Context, userID, projectID int64) error {
	return s.repo.RemoveMember(ctx, userID, projectID)
}

// SetMembership replaces a user's whole membership set atomically.
func (s *Service) SetMembership(ctx context.Context, userID int64, projectIDs []int64) error {
	if userID <= 0 {
		return errors.New("projects: user id required")
	}
	deduped := make([]int64, 0, len(projectIDs))
	seen := make(map[int64]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		if id <= 0 {
			return errors.New("projects: project ids must be positive")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return s.repo.SetMembership(ctx, userID, deduped)
}
