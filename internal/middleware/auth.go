package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/authctx"
	"squash-courts/backend/internal/httpjson"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	return tok, tok != ""
}

func verify(ctx context.Context, v TokenVerifier, idToken string) (*authctx.User, error) {
	tok, err := v.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	u := &authctx.User{UID: tok.UID, Claims: tok.Claims}
	if s, ok := tok.Claims["email"].(string); ok {
		u.Email = s
	}
	if s, ok := tok.Claims["phone_number"].(string); ok {
		u.PhoneNumber = s
	}
	return u, nil
}

// WithAuth rejects requests without a valid Firebase ID token.
func WithAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idToken, ok := bearerToken(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, "missing Authorization: Bearer <token>")
				return
			}
			u, err := verify(r.Context(), v, idToken)
			if err != nil {
				log.Debug().Err(err).Msg("rejected id token")
				httpjson.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), u)))
		})
	}
}

// WithOptionalAuth attaches the caller when a token is sent. Anonymous
// requests pass through; a token that fails verification is still rejected.
func WithOptionalAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idToken, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			u, err := verify(r.Context(), v, idToken)
			if err != nil {
				httpjson.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), u)))
		})
	}
}

// RequireAdmin must run after WithAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := authctx.FromContext(r.Context())
		if !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !authctx.IsAdmin(u.Claims) {
			httpjson.Error(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
