package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type claims.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims is the JWT payload for both access and refresh tokens. Refresh
// tokens additionally carry a JTI so they can be revoked server-side.
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"type"`
	JTI       string `json:"jti,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken mints a short-lived stateless access token.
func GenerateAccessToken(secret string, userID uint, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return sign(secret, &Claims{
		UserID:    userID,
		TokenType: TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// GenerateRefreshToken mints a refresh token carrying the given jti. The
// caller is responsible for recording the jti in the tokens table.
func GenerateRefreshToken(secret string, userID uint, jti string, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = 14 * 24 * time.Hour
	}
	return sign(secret, &Claims{
		UserID:    userID,
		TokenType: TokenRefresh,
		JTI:       jti,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

func sign(secret string, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken parses and verifies a JWT, returning its Claims. Expiry errors
// surface as jwt.ErrTokenExpired so callers can report them distinctly.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// IsExpired reports whether a parse failure was caused by token expiry.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
