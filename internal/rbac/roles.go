package rbac

import (
	"context"
	"strings"
)

// Role is the role claim carried by access tokens.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole accepts the known roles, case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := RolePermissions[r]
	return r, ok
}

// Can reports whether the role is granted perm. A grant ending in "*"
// covers every permission with that prefix.
func (r Role) Can(perm string) bool {
	for _, g := range RolePermissions[r] {
		if g == "*" || g == perm {
			return true
		}
		if strings.HasSuffix(g, "*") && strings.HasPrefix(perm, strings.TrimSuffix(g, "*")) {
			return true
		}
	}
	return false
}

func (r Role) CanAny(perms ...string) bool {
	for _, p := range perms {
		if r.Can(p) {
			return true
		}
	}
	return false
}

type roleKey struct{}

func WithRole(ctx context.Context, r Role) context.Context {
	return context.WithValue(ctx, roleKey{}, r)
}

// RoleFromContext returns "" when the request carries no role.
func RoleFromContext(ctx context.Context) Role {
	r, _ := ctx.Value(roleKey{}).(Role)
	return r
}
