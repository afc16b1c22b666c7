package middleware

import (
	"net/http"
	"strings"

	"github.com/ApptChat/AC-Backend/internal/utils"
)

// TokenVerifier checks a bearer token and returns the user id it carries.
// Implemented by the auth package; an interface here keeps the dependency
// pointing middleware -> nothing rather than middleware -> auth.
type TokenVerifier interface {
	VerifyToken(raw string) (string, error)
}

var devOrigins = map[string]struct{}{
	"http://localhost:3000": {},
	"http://localhost:5173": {},
}

// CORSMiddleware echoes the origin back only if it's the configured frontend
// or a local dev origin.
func CORSMiddleware(frontendURL string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(devOrigins)+1)
	for o := range devOrigins {
		allowed[o] = struct{}{}
	}
	if frontendURL != "" {
		allowed[strings.TrimSuffix(frontendURL, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin") // important for caches
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware verifies the bearer token on protected routes. A missing
// token is 401; a token that fails verification (bad signature, expired,
// malformed) is 403. On success the user id is attached to the context.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			userID, err := verifier.VerifyToken(raw)
			if err != nil {
				utils.RespondError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithUserID(r.Context(), userID)))
		})
	}
}
