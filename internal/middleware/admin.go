package middleware

import (
	"crypto/subtle"
	"net/http"

	"nextglide-backend/internal/auth"
	"nextglide-backend/internal/transport"
)

const AccessCookieName = "ng_access"

// AdminAuth lets a request through when it carries the static X-Admin-Key or a
// valid admin access token cookie.
func AdminAuth(adminKey string, manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" && manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			if adminKey != "" {
				provided := r.Header.Get("X-Admin-Key")
				if provided != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			if manager != nil {
				cookie, err := r.Cookie(AccessCookieName)
				if err == nil && cookie.Value != "" {
					claims, err := manager.Parse(cookie.Value)
					if err == nil && claims.Role == auth.RoleAdmin && claims.Kind == auth.KindAccess {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		})
	}
}
