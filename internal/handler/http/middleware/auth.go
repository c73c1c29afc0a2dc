package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/handler/http/response"
)

// TokenRevocation reports whether a raw token was revoked.
type TokenRevocation interface {
	IsTokenRevoked(token string) bool
}

// AuthRequired rejects requests without a verified, unrevoked access token.
// It runs after jwtauth.Verifier.
func AuthRequired(revocation TokenRevocation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, user.ErrUnauthenticated)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, user.ErrUnauthenticated)
				return
			}

			if revocation != nil && revocation.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.Unauthorized(w, "Token revoked")
				return
			}

			if _, err := user.CallerFromContext(r.Context()); err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
