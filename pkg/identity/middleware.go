package identity

import (
	"net/http"
	"strings"
)

const (
	HeaderPrincipalID   = "X-Principal-Id"
	HeaderPrincipalRole = "X-Principal-Role"
)

// Middleware extracts the principal the auth gateway injected after
// verifying the session token. No header means the caller is a guest; the
// request proceeds either way and handlers decide what the guest may see.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderPrincipalID))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			role := Role(strings.TrimSpace(r.Header.Get(HeaderPrincipalRole)))
			if role != RoleAdmin {
				role = RoleUser
			}

			ctx := WithPrincipal(r.Context(), &Principal{ID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
