package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itledger/itledger/internal/authz"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	issuer, err := NewIssuer("test-secret", "itledger-test", time.Hour)
	require.NoError(t, err)
	return issuer
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newTestIssuer(t)

	identity := Identity{UserID: 42, Name: "Dewi", Role: authz.RoleManager}
	perms := []string{authz.PermAssetsView, authz.PermAssetsEdit}

	signed, expiresAt, err := issuer.Issue(identity, perms)
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	principal, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), principal.UserID)
	assert.Equal(t, "Dewi", principal.Name)
	assert.Equal(t, authz.RoleManager, principal.Role)
	assert.Equal(t, perms, principal.Permissions)
}

func TestIssueCopiesPermissionSnapshot(t *testing.T) {
	issuer := newTestIssuer(t)

	perms := []string{authz.PermAssetsView}
	signed, _, err := issuer.Issue(Identity{UserID: 1, Role: authz.RoleUser}, perms)
	require.NoError(t, err)

	// Mutating the caller's slice must not leak into the issued credential.
	perms[0] = authz.PermSystemAdmin

	principal, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermAssetsView}, principal.Permissions)
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := newTestIssuer(t)
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	signed, _, err := issuer.Issue(Identity{UserID: 9, Role: authz.RoleUser}, nil)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewIssuer("other-secret", "itledger-test", time.Hour)
	require.NoError(t, err)

	signed, _, err := other.Issue(Identity{UserID: 9, Role: authz.RoleUser}, nil)
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t)
	_, err := issuer.Verify("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	issuer := newTestIssuer(t)
	_, _, err := issuer.Issue(Identity{UserID: 1, Role: authz.Role("root")}, nil)
	require.Error(t, err)
}

func TestNewIssuerValidation(t *testing.T) {
	_, err := NewIssuer("", "x", time.Hour)
	require.Error(t, err)
	_, err = NewIssuer("secret", "x", 0)
	require.Error(t, err)
}
