package authz

import "context"

// Principal describes the authenticated actor as carried by a verified token.
// Permissions hold the snapshot embedded at issuance, not the live grant store.
type Principal struct {
	UserID      int64
	Name        string
	Role        Role
	Permissions []string
}

// HasPermission reports whether the snapshot contains the permission.
func (p Principal) HasPermission(perm string) bool {
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context, nil when absent.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
