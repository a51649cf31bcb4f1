package mockapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const SessionCookie = "SESSION"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	usernameKey
	tokenKey
)

// RequestIDMiddleware echoes the caller's X-Request-ID, generating one when
// absent.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware resolves the session cookie into a username. Requests
// without a valid session pass through anonymous.
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err == nil && c.Value != "" {
			if username, ok := s.store.UserFor(c.Value); ok {
				ctx := context.WithValue(r.Context(), usernameKey, username)
				ctx = context.WithValue(ctx, tokenKey, c.Value)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUser answers 401 for anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if getUsername(r.Context()) == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "Please login first")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getUsername(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}

func getToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}

func getRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
