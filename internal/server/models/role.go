package models

// Role is a named permission group drawn from a fixed enumeration.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleVisitor Role = "Visitor"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleVisitor}

// ParseRole returns the known role matching name exactly.
func ParseRole(name string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == name {
			return r, true
		}
	}
	return "", false
}
