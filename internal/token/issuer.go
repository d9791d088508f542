package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/itledger/itledger/internal/authz"
)

// ErrInvalidToken indicates a credential that failed verification.
var ErrInvalidToken = errors.New("token: invalid credential")

// Claims is the signed payload embedded in an issued credential.
//
// Permissions are a copy of the explicit grant set at issuance time. Grants and
// revokes committed after issuance are invisible to this credential for its
// whole lifetime; the staleness window equals the configured TTL.
type Claims struct {
	jwt.RegisteredClaims
	Name        string     `json:"name"`
	Role        authz.Role `json:"role"`
	Permissions []string   `json:"permissions"`
}

// Identity is the verified account a credential is minted for.
type Identity struct {
	UserID int64
	Name   string
	Role   authz.Role
}

// Issuer mints and verifies time-boxed HS256 credentials.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer constructs an Issuer. TTL must be positive.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret required")
	}
	if ttl <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL returns the configured credential lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue mints a signed credential embedding the identity and permission snapshot.
func (i *Issuer) Issue(identity Identity, permissions []string) (string, time.Time, error) {
	if !identity.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("token: cannot issue for unknown role %q", identity.Role)
	}
	now := i.now()
	expiresAt := now.Add(i.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
		Name:        identity.Name,
		Role:        identity.Role,
		Permissions: append([]string(nil), permissions...),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a credential, returning the principal it carries.
func (i *Issuer) Verify(raw string) (*authz.Principal, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	return &authz.Principal{
		UserID:      userID,
		Name:        claims.Name,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}

var _ authz.Verifier = (*Issuer)(nil)
