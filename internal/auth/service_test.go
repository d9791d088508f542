package auth_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/itledger/itledger/internal/auth"
	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
	"github.com/itledger/itledger/internal/token"
)

type stubRepo struct {
	user     *auth.User
	sessions int
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	s.sessions++
	return nil
}

// liveGrants is a mutable stand-in for the explicit grant store, so tests can
// change grants between token issuances.
type liveGrants struct {
	byUser map[int64][]string
}

func (g *liveGrants) GetPermissions(ctx context.Context, userID int64) ([]string, error) {
	perms := append([]string(nil), g.byUser[userID]...)
	sort.Strings(perms)
	return perms, nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hash)
}

func newLoginService(t *testing.T, repo *stubRepo, grants *liveGrants) (*auth.Service, *token.Issuer) {
	t.Helper()
	issuer, err := token.NewIssuer("test-secret", "itledger-test", time.Hour)
	require.NoError(t, err)
	return auth.NewService(repo, grants, issuer, nil), issuer
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 1, Email: "u@test.local", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleUser, IsActive: true}}
	svc, _ := newLoginService(t, repo, &liveGrants{})

	_, err := svc.Authenticate(context.Background(), "u@test.local", "wrongpass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownAndInactiveIndistinguishable(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 1, Email: "u@test.local", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleUser, IsActive: false}}
	svc, _ := newLoginService(t, repo, &liveGrants{})

	_, errInactive := svc.Authenticate(context.Background(), "u@test.local", "correctpass")
	_, errUnknown := svc.Authenticate(context.Background(), "ghost@test.local", "correctpass")
	require.ErrorIs(t, errInactive, shared.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, shared.ErrInvalidCredentials)
}

func TestLoginEmbedsPermissionSnapshot(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 3, Email: "u3@test.local", Name: "Sari", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleUser, IsActive: true}}
	grants := &liveGrants{byUser: map[int64][]string{3: {authz.PermAssetsView, authz.PermReportsView}}}
	svc, issuer := newLoginService(t, repo, grants)

	result, err := svc.Login(context.Background(), "u3@test.local", "correctpass", "127.0.0.1", "go-test")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.sessions)

	principal, err := issuer.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermAssetsView, authz.PermReportsView}, principal.Permissions)
	assert.Equal(t, authz.RoleUser, principal.Role)
	assert.Equal(t, "Sari", principal.Name)
}

func TestSnapshotIsStaleUntilReissue(t *testing.T) {
	// Token issued at T0 carries {A,B}. A grant at T1 stays invisible to that
	// token; a fresh login after T1 carries {A,B,C}.
	repo := &stubRepo{user: &auth.User{ID: 3, Email: "u3@test.local", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleUser, IsActive: true}}
	grants := &liveGrants{byUser: map[int64][]string{3: {authz.PermAssetsView, authz.PermReportsView}}}
	svc, issuer := newLoginService(t, repo, grants)
	ctx := context.Background()

	first, err := svc.Login(ctx, "u3@test.local", "correctpass", "", "")
	require.NoError(t, err)

	grants.byUser[3] = append(grants.byUser[3], authz.PermOrdersView)

	stale, err := issuer.Verify(first.Token)
	require.NoError(t, err)
	assert.NotContains(t, stale.Permissions, authz.PermOrdersView)

	second, err := svc.Login(ctx, "u3@test.local", "correctpass", "", "")
	require.NoError(t, err)
	fresh, err := issuer.Verify(second.Token)
	require.NoError(t, err)
	assert.Contains(t, fresh.Permissions, authz.PermOrdersView)
}

func TestLoginNormalizesEmail(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 4, Email: "mix@test.local", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleUser, IsActive: true}}
	svc, _ := newLoginService(t, repo, &liveGrants{})

	_, err := svc.Login(context.Background(), "  Mix@Test.Local ", "correctpass", "", "")
	require.NoError(t, err)
}
