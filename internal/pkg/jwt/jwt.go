package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidTokenType = errors.New("token is not an access token")

// Service verifies access tokens issued by the identity service and can mint
// tokens with the same shared secret.
type Service interface {
	GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error)
	ParseAccessToken(tokenString string) (user.Caller, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies tokenString and returns the caller it carries.
func (j *JWTService) ParseAccessToken(tokenString string) (user.Caller, error) {
	if j.IsTokenRevoked(tokenString) {
		return user.Caller{}, user.ErrUnauthenticated
	}

	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Caller{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != "access" {
		return user.Caller{}, ErrInvalidTokenType
	}

	userIDVal, _ := token.Get("user_id")
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return user.Caller{}, user.ErrUnauthenticated
	}

	roleVal, _ := token.Get("role")
	roleStr, _ := roleVal.(string)
	role, ok := user.ParseRole(roleStr)
	if !ok {
		return user.Caller{}, user.ErrUnauthenticated
	}

	return user.Caller{UserID: userID, Role: role}, nil
}

func (j *JWTService) RevokeToken(token string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = time.Now().Unix()
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}
