package rbac

import (
	"context"
	"net/http"
)

// Allowed reports whether the role in ctx holds perm.
func Allowed(ctx context.Context, perm string) bool {
	return RoleFromContext(ctx).Can(perm)
}

// Require enforces a single permission.
func Require(perm string) func(http.Handler) http.Handler {
	return guard(func(r Role) bool { return r.Can(perm) })
}

// RequireAny enforces that the role has at least one of the permissions.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return guard(func(r Role) bool { return r.CanAny(perms...) })
}

func guard(ok func(Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ok(RoleFromContext(r.Context())) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
