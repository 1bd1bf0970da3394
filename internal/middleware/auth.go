package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ftcaleb/marketing-kasiverse/internal/models"
	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
	"github.com/ftcaleb/marketing-kasiverse/internal/utils"

	"github.com/rs/zerolog"
)

type ctxKey int

const ctxPrincipal ctxKey = iota

// WithAuth resolves the bearer credential into a typed principal, or rejects
// the request. It runs before every protected handler, so anything behind it
// can rely on PrincipalFrom. Pure gate: no side effects on success.
func WithAuth(log zerolog.Logger, identity repository.IdentityProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			tok, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || tok == "" {
				utils.Error(w, http.StatusUnauthorized, "No token")
				return
			}

			u, err := identity.GetUser(r.Context(), tok)
			if err != nil {
				// Provider outages read the same as bad tokens to the
				// client, but are logged with full detail.
				if !errors.Is(err, repository.ErrInvalidToken) {
					log.Error().Err(err).Msg("token introspection failed")
				}
				utils.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxPrincipal, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the authenticated user resolved by WithAuth.
func PrincipalFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxPrincipal).(*models.User)
	return u, ok
}
