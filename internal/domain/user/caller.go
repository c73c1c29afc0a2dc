package user

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Caller is the identity carried by a verified access token.
type Caller struct {
	UserID string
	Role   Role
}

// CallerFromContext reads the caller out of the jwtauth claims placed on the
// request context by the verifier middleware.
func CallerFromContext(ctx context.Context) (Caller, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Caller{}, ErrUnauthenticated
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Caller{}, ErrUnauthenticated
	}

	roleStr, _ := claims["role"].(string)
	role, ok := ParseRole(roleStr)
	if !ok {
		return Caller{}, ErrUnauthenticated
	}

	return Caller{UserID: userID, Role: role}, nil
}

// NewCallerContext attaches caller as verified claims, the same shape the
// verifier middleware produces. Background jobs and tests use it.
func NewCallerContext(ctx context.Context, caller Caller) context.Context {
	token := jwt.New()
	_ = token.Set("user_id", caller.UserID)
	_ = token.Set("role", string(caller.Role))
	_ = token.Set("type", "access")
	return jwtauth.NewContext(ctx, token, nil)
}
