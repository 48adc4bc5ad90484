package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/auth"
	"github.com/anto-kazungu/fullstack-telemedicine-webapp/internal/utils"
)

// SessionValidator resolves a session token to its username. Tokens that are
// unknown, destroyed, or expired must fail.
type SessionValidator interface {
	Validate(token string) (string, error)
}

// RequireSession gates every protected operation. Requests without a valid
// session receive 401 before the handler runs; valid ones get the username
// injected into the request context.
func RequireSession(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			username, err := sessions.Validate(cookie.Value)
			if errors.Is(err, auth.ErrUnauthorized) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if err != nil {
				// Session store failure is a server fault, not a login problem.
				http.Error(w, "Server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var allowed = map[string]struct{}{
	"http://localhost:3000": {},
	"http://localhost:5173": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it's on our allow-list
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
