package models

import "strings"

// Role is the capability level carried by an authenticated identity. It is
// decoded exactly once at the auth boundary; everything downstream compares
// Role values, never raw claim strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHelpDesk Role = "helpdesk"
	RoleTenant   Role = "tenant"
)

// Admin.role column literals. The database stores the capitalized form;
// tokens carry the lowercase Role.
const (
	AdminRoleAdmin    = "Admin"
	AdminRoleHelpDesk = "HelpDesk"
)

// ParseRole normalizes a stored or claimed role string to a Role. The
// original data contains both "HelpDesk" and "helpdesk" spellings, so the
// comparison is case-insensitive.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(s) {
	case "admin":
		return RoleAdmin, true
	case "helpdesk":
		return RoleHelpDesk, true
	case "tenant":
		return RoleTenant, true
	default:
		return "", false
	}
}

// CanOperateHelpDesk reports whether the role may perform help-desk
// operations. Admins retain help-desk capability.
func (r Role) CanOperateHelpDesk() bool {
	return r == RoleAdmin || r == RoleHelpDesk
}
