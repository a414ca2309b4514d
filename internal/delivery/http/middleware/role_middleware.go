package middleware

import (
	"net/http"
	"slices"

	"medbridge-api/internal/domain/entity"
	"medbridge-api/pkg/response"
)

// RequireRole must run after AuthMiddleware.Authenticate, which puts the
// actor in the request context.
func RequireRole(roleIDs ...int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := GetActorFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}
			if !slices.Contains(roleIDs, actor.RoleID) {
				response.Forbidden(w, "Staff access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleIDAdmin)(next)
}
