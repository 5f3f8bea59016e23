package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/grabble/internal/api/apierr"
	"github.com/mcoot/grabble/internal/model"
	"github.com/mcoot/grabble/internal/services/auth"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

// SessionValidator resolves a session token
type SessionValidator interface {
	ValidateSession(token string) (*auth.Session, error)
}

// Auth creates authentication middleware
func Auth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			session, err := sessions.ValidateSession(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, sessionContextKey, session)
			ctx = context.WithValue(ctx, userContextKey, &session.User)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken extracts the session token from the request. EventSource
// cannot set headers, so the event stream passes it as ?token=.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	cookie, err := r.Cookie("session")
	if err == nil {
		return cookie.Value
	}

	return ""
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// GetSession returns the session from the request context
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
