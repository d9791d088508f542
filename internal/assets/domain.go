package assets

import (
	"context"
	"time"

	"github.com/itledger/itledger/internal/scope"
	"github.com/itledger/itledger/internal/shared"
)

// Asset is one tracked piece of IT equipment. Every asset belongs to exactly
// one project; project membership decides who can see it.
type Asset struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"projectId"`
	Tag        string    `json:"tag"`
	Serial     string    `json:"serial"`
	Model      string    `json:"model"`
	Status     string    `json:"status"`
	AssignedTo *int64    `json:"assignedTo,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ListRequest carries caller-supplied filters for asset listings.
type ListRequest struct {
	Search    string
	Status    string
	ProjectID *int64
	Page      int
	PerPage   int
}

// ListResult is a page of assets plus pagination metadata.
type ListResult struct {
	Assets     []Asset           `json:"assets"`
	Pagination shared.Pagination `json:"pagination"`
}

// Repository defines persistence operations for assets. Every query takes the
// narrowed scope filter; repositories never re-derive visibility rules.
type Repository interface {
	ListAssets(ctx context.Context, filter scope.Filter, req ListRequest) ([]Asset, error)
	CountAssets(ctx context.Context, filter scope.Filter, req ListRequest) (int, error)
	GetAsset(ctx context.Context, id int64) (Asset, error)
}
