package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ===== Session/JWT primitives =====

type sessionClaims struct {
	jwt.RegisteredClaims
}

type ctxKey string

const ctxCallerID ctxKey = "caller_id"

// CallerID returns the authenticated user id placed by the session
// middleware, or "" when the request is unauthenticated.
func CallerID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxCallerID).(string); ok {
		return v
	}
	return ""
}

// sessionMiddleware verifies the platform session token (HS256 JWT,
// subject = user id) and stashes the caller id in the context.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims := &sessionClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return s.authSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tok.Valid || claims.Subject == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxCallerID, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminMiddleware is plain bearer-key auth for the operator surface.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.adminAPIKey == "" {
			s.log.Error().Msg("admin API key is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if bearerToken(r) != s.adminAPIKey {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
