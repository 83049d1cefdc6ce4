package webserver

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
)

// TokenTTL is the bearer token lifetime
const TokenTTL = 72 * time.Hour

// TokenClaims carries the authenticated user's identity and role
type TokenClaims struct {
	UserID   int64  `json:"uid,string"`
	Username string `json:"usr"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func NewTokenClaims(c echo.Context) jwt.Claims {
	return &TokenClaims{}
}

// IssueToken signs a bearer token for the given user
func IssueToken(user *domain.User, secret string) (string, error) {
	claims := &TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CurrentClaims extracts the verified claims set by the jwt middleware,
// nil when the request carries no valid token
func CurrentClaims(c echo.Context) *TokenClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
