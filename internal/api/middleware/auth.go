package middleware

import (
	"context"
	"net/http"

	"github.com/Thilas/plex-betaseries-webhook/internal/services/betaseries"
)

type principalKey struct{}

// PrincipalResolver authenticates one inbound request without ever failing
type PrincipalResolver interface {
	GetPrincipal(ctx context.Context, plexAccount, accessToken string) betaseries.Principal
}

// Principal resolves the caller's BetaSeries principal from the
// plexAccount and accessToken query parameters and stores it in the
// request context. Resolution never fails; handlers decide what an
// unauthenticated principal means for them.
func Principal(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			principal := resolver.GetPrincipal(r.Context(), query.Get("plexAccount"), query.Get("accessToken"))
			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the principal resolved for this request, or an
// unauthenticated one when the middleware did not run
func PrincipalFrom(ctx context.Context) betaseries.Principal {
	if principal, ok := ctx.Value(principalKey{}).(betaseries.Principal); ok {
		return principal
	}
	return betaseries.Principal{}
}
