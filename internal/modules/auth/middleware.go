package auth

import (
	"net/http"
	"strings"
)

const (
	// SessionHeader carries the cart session token.
	SessionHeader = "X-Cart-Session"
	// SessionCookie is the cookie alternative to SessionHeader.
	SessionCookie = "cart_session"
)

// RequireSession rejects requests without a valid cart session token and
// stores the session id in the request context.
func RequireSession(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(SessionHeader)
			if token == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					token = c.Value
				}
			}
			id, err := svc.VerifySession(token)
			if err != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "cart session is required"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// RequireAdmin rejects requests without an admin bearer token.
func RequireAdmin(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || svc.VerifyAdmin(strings.TrimSpace(token)) != nil {
				respond(w, http.StatusUnauthorized, map[string]string{"error": "admin token is required"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
