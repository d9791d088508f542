package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/itledger/itledger/internal/shared"
	"github.com/itledger/itledger/internal/token"
)

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	permissions PermissionSource
	issuer      *token.Issuer
	logger      *slog.Logger
}

// NewService constructs a new Service.
func NewService(repo Repository, permissions PermissionSource, issuer *token.Issuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, permissions: permissions, issuer: issuer, logger: logger}
}

// LoginResult carries the minted credential and the account it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Authenticate validates email/password credentials. Missing accounts,
// inactive accounts, and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates, snapshots the live grant store, and mints a credential.
// A grant committed after the snapshot read is absent from this credential and
// appears on the next login.
func (s *Service) Login(ctx context.Context, email, password, ip, ua string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	perms, err := s.permissions.GetPermissions(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	signed, expiresAt, err := s.issuer.Issue(token.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}, perms)
	if err != nil {
		return nil, err
	}
	sessionID := uuid.New().String()
	if err := s.repo.CreateSession(ctx, sessionID, user.ID, expiresAt, ip, ua); err != nil {
		// Audit bookkeeping must not block a successful login.
		if s.logger != nil {
			s.logger.Warn("record login session", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
	}
	return &LoginResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}
