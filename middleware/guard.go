package middleware

import (
	"context"
	"net/http"
	"strings"

	shieldcore "github.com/shieldhq/shieldcore"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal a guard injected for the
// current request.
func PrincipalFromContext(ctx context.Context) (*shieldcore.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*shieldcore.Principal)
	return p, ok
}

// RequireAny gates the wrapped handler on the principal holding at least one
// of the named permissions. An empty permission list never grants access.
func RequireAny(engine *shieldcore.Engine, verifier *Verifier, perms ...string) func(http.Handler) http.Handler {
	return guard(engine, verifier, perms, func(e *shieldcore.Engine, p *shieldcore.Principal, required []string) bool {
		return e.CanAny(p, required)
	})
}

// RequireAll gates the wrapped handler on the principal holding every named
// permission.
func RequireAll(engine *shieldcore.Engine, verifier *Verifier, perms ...string) func(http.Handler) http.Handler {
	return guard(engine, verifier, perms, func(e *shieldcore.Engine, p *shieldcore.Principal, required []string) bool {
		return e.CanAll(p, required)
	})
}

func guard(
	engine *shieldcore.Engine,
	verifier *Verifier,
	perms []string,
	decide func(*shieldcore.Engine, *shieldcore.Principal, []string) bool,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil || verifier == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			principal, err := verifier.Principal(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !decide(engine, principal, perms) {
				// Deliberately generic: the required token set is not echoed.
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
