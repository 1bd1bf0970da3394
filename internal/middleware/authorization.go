package middleware

import (
	"net/http"

	"github.com/ftcaleb/marketing-kasiverse/internal/models"
	"github.com/ftcaleb/marketing-kasiverse/internal/utils"
)

// RequireAdmin allows the request only when the principal set by WithAuth
// carries the admin role. Role normalization happened at the gate; this is a
// plain comparison.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := PrincipalFrom(r.Context())
		if !ok || u.Role != models.RoleAdmin {
			utils.Error(w, http.StatusForbidden, "Unauthorized: Admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
