package authctx_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"squash-courts/backend/internal/authctx"
)

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
		want   bool
	}{
		{name: "nil", claims: nil, want: false},
		{name: "flag", claims: map[string]any{"admin": true}, want: true},
		{name: "flag false", claims: map[string]any{"admin": false}, want: false},
		{name: "role", claims: map[string]any{"role": "admin"}, want: true},
		{name: "other role", claims: map[string]any{"role": "customer"}, want: false},
		{name: "roles map", claims: map[string]any{"roles": map[string]any{"admin": true}}, want: true},
		{name: "roles array", claims: map[string]any{"roles": []any{"coach", "admin"}}, want: true},
		{name: "granted claims", claims: authctx.AdminClaims(true), want: true},
		{name: "revoked claims", claims: authctx.AdminClaims(false), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authctx.IsAdmin(tt.claims))
		})
	}
}

func TestFromContext(t *testing.T) {
	_, ok := authctx.FromContext(context.Background())
	assert.False(t, ok)

	_, ok = authctx.FromContext(authctx.WithUser(context.Background(), &authctx.User{}))
	assert.False(t, ok)

	u, ok := authctx.FromContext(authctx.WithUser(context.Background(), &authctx.User{UID: "u1"}))
	assert.True(t, ok)
	assert.Equal(t, "u1", u.UID)
}
