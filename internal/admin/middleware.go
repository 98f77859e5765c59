package admin

import (
	"context"
	"net/http"

	"campus-events/internal/admin/session"
	"campus-events/internal/utils"
)

type contextKey string

const sessionKey contextKey = "admin_session"

// RequireAdmin gates a route group on an authenticated admin session. The
// session cookie is the only accepted proof; there is no token-in-body
// fallback. Rejections happen before any data store access.
func RequireAdmin(service *Service, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromCookie(r, cookieName)
			sess, err := service.Resolve(r.Context(), token)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized. Admin login required.")
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentSession returns the admin session placed on the context by
// RequireAdmin, or nil outside a gated route.
func CurrentSession(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(sessionKey).(*session.Session); ok {
		return sess
	}
	return nil
}

func tokenFromCookie(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
