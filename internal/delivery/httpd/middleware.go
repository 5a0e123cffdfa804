package httpd

import (
	"net/http"
	"strings"

	"github.com/UsmanHyd/AdvanceWeb-EduNest/internal/auth"
)

// authenticate resolves the bearer token into a caller identity and stores
// it in the request context. Missing or invalid credentials end the request
// with a 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ident, err := h.tokens.Parse(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ident)))
	})
}

// callerIdentity fetches the identity placed by the authenticate middleware.
func (h *Handler) callerIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return auth.Identity{}, false
	}
	return ident, true
}
