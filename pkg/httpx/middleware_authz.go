package httpx

import "net/http"

// RequireRole rejects callers whose session role differs from want.
// The console only ever signs tokens for admins, but the check stays
// explicit so a stray token can never reach an operator endpoint.
func RequireRole(want string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if roleFromCtx(r.Context()) != want {
				w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope"`)
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("insufficient_scope"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
