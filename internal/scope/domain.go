package scope

import (
	"fmt"

	"github.com/itledger/itledger/internal/authz"
	"github.com/itledger/itledger/internal/shared"
)

// AccessScope is the per-request data-visibility decision. It is derived,
// never persisted: either unrestricted, or restricted to an explicit project-ID
// set which may legitimately be empty.
type AccessScope struct {
	all bool
	ids []int64
}

// Unrestricted returns the scope that sees every project.
func Unrestricted() AccessScope {
	return AccessScope{all: true}
}

// Restricted returns a scope limited to the given project IDs. An empty set is
// a valid scope that sees nothing.
func Restricted(projectIDs []int64) AccessScope {
	return AccessScope{ids: append([]int64(nil), projectIDs...)}
}

// CanSeeAll reports whether the scope has no project restriction.
func (s AccessScope) CanSeeAll() bool {
	return s.all
}

// Empty reports whether the scope is restricted to zero projects.
func (s AccessScope) Empty() bool {
	return !s.all && len(s.ids) == 0
}

// ProjectIDs returns a copy of the restricted set; nil when unrestricted.
func (s AccessScope) ProjectIDs() []int64 {
	if s.all {
		return nil
	}
	return append([]int64(nil), s.ids...)
}

// Allows reports whether the scope may see the given project.
func (s AccessScope) Allows(projectID int64) bool {
	if s.all {
		return true
	}
	for _, id := range s.ids {
		if id == projectID {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer for log output.
func (s AccessScope) String() string {
	if s.all {
		return "unrestricted"
	}
	return fmt.Sprintf("restricted%v", s.ids)
}

// Filter is the narrowed decision a scoped repository applies to its query.
// Exactly one of the three shapes holds:
//   - All: add no project filter,
//   - None: return an empty result without issuing the query,
//   - ProjectIDs: filter rows by project_id membership.
type Filter struct {
	All        bool
	None       bool
	ProjectIDs []int64
}

// Narrow combines the scope with an optional caller-requested project. A
// request for a project outside a restricted scope fails with ErrForbidden,
// not not-found: the row may exist, the caller simply may not see it.
func (s AccessScope) Narrow(requested *int64) (Filter, error) {
	if requested != nil {
		if !s.Allows(*requested) {
			return Filter{}, fmt.Errorf("%w: project %d outside access scope", shared.ErrForbidden, *requested)
		}
		return Filter{ProjectIDs: []int64{*requested}}, nil
	}
	if s.all {
		return Filter{All: true}, nil
	}
	if len(s.ids) == 0 {
		return Filter{None: true}, nil
	}
	return Filter{ProjectIDs: append([]int64(nil), s.ids...)}, nil
}

// CanSeeAllData reports whether the role always resolves to an unrestricted
// scope, regardless of project membership.
func CanSeeAllData(role authz.Role) bool {
	return role == authz.RoleSuperAdmin || role == authz.RoleAdmin
}
