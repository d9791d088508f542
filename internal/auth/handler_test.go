package auth_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itledger/itledger/internal/auth"
	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/token"
	_ "github.com/itledger/itledger/testing"
)

func newLoginRouter(t *testing.T, repo *stubRepo, grants *liveGrants) (chi.Router, *token.Issuer) {
	t.Helper()
	issuer, err := token.NewIssuer("test-secret", "itledger-test", time.Hour)
	require.NoError(t, err)
	svc := auth.NewService(repo, grants, issuer, nil)
	handler := auth.NewHandler(discardLogger(), svc, 0)

	r := chi.NewRouter()
	handler.MountRoutes(r)
	guard := authz.Middleware{Verifier: issuer}
	r.Group(func(r chi.Router) {
		r.Use(guard.Authenticate)
		handler.MountProtected(r)
	})
	return r, issuer
}

func postLogin(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestLoginEndpointSuccess(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 11, Email: "admin@test.local", Name: "Admin", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleAdmin, IsActive: true}}
	grants := &liveGrants{byUser: map[int64][]string{11: {authz.PermUsersEdit}}}
	router, issuer := newLoginRouter(t, repo, grants)

	res := postLogin(t, router, `{"email":"admin@test.local","password":"correctpass"}`)
	require.Equal(t, http.StatusOK, res.Code)

	var payload struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
		User      struct {
			ID   int64  `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	assert.Equal(t, int64(11), payload.User.ID)
	assert.Equal(t, "admin", payload.User.Role)

	principal, err := issuer.Verify(payload.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{authz.PermUsersEdit}, principal.Permissions)
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 11, Email: "admin@test.local", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleAdmin, IsActive: true}}
	router, _ := newLoginRouter(t, repo, &liveGrants{})

	res := postLogin(t, router, `{"email":"admin@test.local","password":"wrongpass1"}`)
	require.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Contains(t, res.Body.String(), "invalid credentials")
}

func TestLoginEndpointValidation(t *testing.T) {
	router, _ := newLoginRouter(t, &stubRepo{}, &liveGrants{})

	res := postLogin(t, router, `{"email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)

	res = postLogin(t, router, `{broken`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMeEchoesTokenSnapshot(t *testing.T) {
	repo := &stubRepo{user: &auth.User{ID: 12, Email: "u@test.local", Name: "Udin", PasswordHash: hashFor(t, "correctpass"), Role: authz.RoleUser, IsActive: true}}
	grants := &liveGrants{byUser: map[int64][]string{12: {authz.PermAssetsView}}}
	router, _ := newLoginRouter(t, repo, grants)

	login := postLogin(t, router, `{"email":"u@test.local","password":"correctpass"}`)
	require.Equal(t, http.StatusOK, login.Code)
	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &payload))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+payload.Token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), authz.PermAssetsView)

	// Without a token the endpoint is unreachable.
	anon := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	anonRes := httptest.NewRecorder()
	router.ServeHTTP(anonRes, anon)
	require.Equal(t, http.StatusUnauthorized, anonRes.Code)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
