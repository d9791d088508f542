package authz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a closed enumeration of account roles, ranked by privilege.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleUser       Role = "user"
)

// roleRanks assigns an explicit privilege rank per role. Higher outranks lower.
// Rank is a first-class property; never compare declaration order.
var roleRanks = map[Role]int{
	RoleSuperAdmin: 4,
	RoleAdmin:      3,
	RoleManager:    2,
	RoleUser:       1,
}

// Roles returns all roles ordered from most to least privileged.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleUser}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the privilege rank of r. Unknown roles rank below every valid role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtLeast reports whether r holds a privilege rank greater than or equal to other.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// ParseRole maps a string to a Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("authz: unknown role %q", s)
	}
	return r, nil
}

// MarshalJSON implements json.Marshaler.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

// UnmarshalJSON implements json.Unmarshaler, rejecting unknown roles.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
