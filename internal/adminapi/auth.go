package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/webserver"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=200"`
	Password string `json:"password" validate:"required,min=1,max=200"`
}

type loginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// login verifies credentials and issues a bearer token
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	user, err := GetStore(c).UserByUsername(c.Request().Context(), trimmed(payload.Username))
	if err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if !common.CheckPassword(user.Password, payload.Password) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if user.Status != common.ENABLED && user.Status != common.StatusActive {
		return fail(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account is disabled", nil)
	}

	token, err := webserver.IssueToken(user, GetConfig(c).Web.Secret)
	if err != nil {
		zap.L().Error("token signing failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", nil)
	}

	user.LastLogin = time.Now()
	if err := GetStore(c).UpdateUser(c.Request().Context(), user); err != nil {
		zap.L().Warn("failed to record last login", zap.String("username", user.Username), zap.Error(err))
	}

	return ok(c, loginResult{Token: token, Username: user.Username, Role: user.Role})
}

// whoami returns the authenticated identity from the verified token
func whoami(c echo.Context) error {
	claims := webserver.CurrentClaims(c)
	if claims == nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authenticated", nil)
	}
	return ok(c, map[string]interface{}{
		"id":       claims.UserID,
		"username": claims.Username,
		"role":     claims.Role,
	})
}
