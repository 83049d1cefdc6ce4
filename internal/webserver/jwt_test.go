package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
)

func TestTokenRoundTripThroughMiddleware(t *testing.T) {
	const secret = "test-secret"
	u := &domain.User{ID: 42, Username: "admin", Role: domain.RoleSuperAdmin}
	token, err := IssueToken(u, secret)
	require.NoError(t, err)

	e := echo.New()
	e.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		NewClaimsFunc: NewTokenClaims,
	}))
	var got *TokenClaims
	e.GET("/", func(c echo.Context) error {
		got = CurrentClaims(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, "admin", got.Username)
	assert.Equal(t, domain.RoleSuperAdmin, got.Role)
}

func TestCurrentClaimsNilWithoutToken(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Nil(t, CurrentClaims(c))
}
