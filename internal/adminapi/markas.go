package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

type markaPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	Logo        string `json:"logo" validate:"omitempty,max=1024"`
	Website     string `json:"website" validate:"omitempty,max=512"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func listPublicMarkas(c echo.Context) error {
	markas, err := GetStore(c).Markas(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query markas", nil)
	}
	active := markas[:0:0]
	for i := range markas {
		if markas[i].Status == common.StatusActive {
			active = append(active, markas[i])
		}
	}
	return ok(c, active)
}

func listMarkas(c echo.Context) error {
	markas, err := GetStore(c).Markas(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query markas", nil)
	}
	return ok(c, markas)
}

func getMarka(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid marka ID", nil)
	}
	m, err := GetStore(c).Marka(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Marka not found", nil)
	}
	return ok(c, m)
}

func createMarka(c echo.Context) error {
	var payload markaPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse marka", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Status == "" {
		payload.Status = common.StatusActive
	}

	ctx := c.Request().Context()
	st := GetStore(c)
	existing, _ := st.Markas(ctx)
	for i := range existing {
		if existing[i].Name == trimmed(payload.Name) {
			return fail(c, http.StatusConflict, "MARKA_EXISTS", "Marka name already exists", nil)
		}
	}

	m := domain.Marka{
		Name:        trimmed(payload.Name),
		Description: payload.Description,
		Logo:        trimmed(payload.Logo),
		Website:     trimmed(payload.Website),
		Status:      payload.Status,
	}
	if err := st.CreateMarka(ctx, &m); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create marka", nil)
	}
	auditLog(c, "create_marka", fmt.Sprintf("marka %d: %s", m.ID, m.Name))
	return ok(c, m)
}

func updateMarka(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid marka ID", nil)
	}
	var payload markaPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse marka", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Status == "" {
		payload.Status = common.StatusActive
	}

	m := domain.Marka{
		ID:          id,
		Name:        trimmed(payload.Name),
		Description: payload.Description,
		Logo:        trimmed(payload.Logo),
		Website:     trimmed(payload.Website),
		Status:      payload.Status,
	}
	if err := GetStore(c).UpdateMarka(c.Request().Context(), &m); err != nil {
		if err == store.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Marka not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update marka", nil)
	}
	auditLog(c, "update_marka", fmt.Sprintf("marka %d: %s", m.ID, m.Name))
	return ok(c, m)
}

func deleteMarka(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid marka ID", nil)
	}

	ctx := c.Request().Context()
	st := GetStore(c)

	// Prevent deletion while products still reference this marka
	m, err := st.Marka(ctx, id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Marka not found", nil)
	}
	if m.ProductCount > 0 {
		return fail(c, http.StatusConflict, "MARKA_IN_USE",
			"Marka is referenced by products and cannot be deleted",
			map[string]interface{}{"product_count": m.ProductCount})
	}

	if err := st.DeleteMarka(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete marka", nil)
	}
	auditLog(c, "delete_marka", fmt.Sprintf("marka %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
