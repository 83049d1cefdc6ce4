package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/webserver"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

type userPayload struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Password string `json:"password" validate:"omitempty,min=6,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin super_admin"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
}

func listUsers(c echo.Context) error {
	users, err := GetStore(c).Users(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", nil)
	}
	return ok(c, users)
}

func getUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	u, err := GetStore(c).User(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	}
	return ok(c, u)
}

func createUser(c echo.Context) error {
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Password is required", nil)
	}
	if payload.Role == "" {
		payload.Role = domain.RoleUser
	}
	if payload.Status == "" {
		payload.Status = common.ENABLED
	}

	ctx := c.Request().Context()
	st := GetStore(c)
	if _, err := st.UserByUsername(ctx, trimmed(payload.Username)); err == nil {
		return fail(c, http.StatusConflict, "USER_EXISTS", "Username already exists", nil)
	}

	hash, err := common.HashPassword(payload.Password)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password", nil)
	}
	u := domain.User{
		Username: trimmed(payload.Username),
		Email:    trimmed(payload.Email),
		Password: hash,
		Role:     payload.Role,
		Status:   payload.Status,
	}
	if err := st.CreateUser(ctx, &u); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create user", nil)
	}
	auditLog(c, "create_user", fmt.Sprintf("user %s role %s", u.Username, u.Role))
	return ok(c, u)
}

func updateUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var payload userPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse user", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	ctx := c.Request().Context()
	st := GetStore(c)
	u, err := st.User(ctx, id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
	}

	u.Username = trimmed(payload.Username)
	u.Email = trimmed(payload.Email)
	if payload.Role != "" {
		u.Role = payload.Role
	}
	if payload.Status != "" {
		u.Status = payload.Status
	}
	if payload.Password != "" {
		hash, err := common.HashPassword(payload.Password)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "HASH_ERROR", "Failed to hash password", nil)
		}
		u.Password = hash
	}
	if err := st.UpdateUser(ctx, u); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update user", nil)
	}
	auditLog(c, "update_user", fmt.Sprintf("user %s", u.Username))
	return ok(c, u)
}

func deleteUser(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}

	// A super admin cannot delete their own account
	claims := webserver.CurrentClaims(c)
	if claims != nil && claims.UserID == id {
		return fail(c, http.StatusConflict, "SELF_DELETE", "Cannot delete the current account", nil)
	}

	if err := GetStore(c).DeleteUser(c.Request().Context(), id); err != nil {
		if err == store.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete user", nil)
	}
	auditLog(c, "delete_user", fmt.Sprintf("user %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
