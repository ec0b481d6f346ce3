package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fastx/backend/internal/services"
)

type contextKey string

const (
	accountIDKey contextKey = "accountID"
	roleKey      contextKey = "role"
	tokenKey     contextKey = "token"
)

// Auth guards routes with purpose-scoped bearer tokens.
type Auth struct {
	tokens *services.TokenIssuer
}

func NewAuth(tokens *services.TokenIssuer) *Auth {
	return &Auth{tokens: tokens}
}

// Authenticate validates an access token, rejecting blacklisted ones, and
// puts the account id and role on the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		accountID, err := a.tokens.Decode(token, services.TokenAccess)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		blacklisted, err := a.tokens.IsBlacklisted(r.Context(), token)
		if err != nil || blacklisted {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		ctx = context.WithValue(ctx, roleKey, a.tokens.Role(token))
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireToken validates a short-lived confirm or reset purpose token.
func (a *Auth) RequireToken(purpose services.TokenPurpose) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			accountID, err := a.tokens.Decode(token, purpose)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize restricts a route to the given roles. It must run after
// Authenticate.
func Authorize(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := Role(r)
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		})
	}
}

// AccountID returns the authenticated account id from the request context.
func AccountID(r *http.Request) string {
	id, _ := r.Context().Value(accountIDKey).(string)
	return id
}

// Role returns the authenticated account role from the request context.
func Role(r *http.Request) string {
	role, _ := r.Context().Value(roleKey).(string)
	return role
}

// BearerToken returns the raw access token stored by Authenticate.
func BearerToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
