package authctx

import (
	"context"
)

type ctxKey string

const userKey ctxKey = "authUser"

// User is the caller identified by a verified Firebase ID token.
type User struct {
	UID         string
	Email       string
	PhoneNumber string
	Claims      map[string]any
}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok && u != nil && u.UID != ""
}

// IsAdmin checks the admin flag, the role field, and the roles map or array
// of a token's custom claims.
func IsAdmin(claims map[string]any) bool {
	if claims == nil {
		return false
	}
	if admin, ok := claims["admin"].(bool); ok && admin {
		return true
	}
	if role, ok := claims["role"].(string); ok && role == "admin" {
		return true
	}
	if roles, ok := claims["roles"].(map[string]any); ok {
		if b, ok := roles["admin"].(bool); ok && b {
			return true
		}
	}
	if roles, ok := claims["roles"].([]any); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok && s == "admin" {
				return true
			}
		}
	}
	return false
}

// AdminClaims is the custom claim set written when granting or revoking
// dashboard access.
func AdminClaims(admin bool) map[string]any {
	role := "customer"
	if admin {
		role = "admin"
	}
	return map[string]any{
		"admin": admin,
		"role":  role,
	}
}
