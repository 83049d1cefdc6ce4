package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

type categoryPayload struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	Image       string `json:"image" validate:"omitempty,max=1024"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func listPublicCategories(c echo.Context) error {
	categories, err := GetStore(c).Categories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", nil)
	}
	active := categories[:0:0]
	for i := range categories {
		if categories[i].Status == common.StatusActive {
			active = append(active, categories[i])
		}
	}
	return ok(c, active)
}

func listCategories(c echo.Context) error {
	categories, err := GetStore(c).Categories(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", nil)
	}
	return ok(c, categories)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	cat, err := GetStore(c).Category(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}
	return ok(c, cat)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Status == "" {
		payload.Status = common.StatusActive
	}

	ctx := c.Request().Context()
	st := GetStore(c)
	existing, _ := st.Categories(ctx)
	for i := range existing {
		if existing[i].Name == trimmed(payload.Name) {
			return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "Category name already exists", nil)
		}
	}

	cat := domain.Category{
		Name:        trimmed(payload.Name),
		Description: payload.Description,
		Image:       trimmed(payload.Image),
		Status:      payload.Status,
	}
	if err := st.CreateCategory(ctx, &cat); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", nil)
	}
	auditLog(c, "create_category", fmt.Sprintf("category %d: %s", cat.ID, cat.Name))
	return ok(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Status == "" {
		payload.Status = common.StatusActive
	}

	cat := domain.Category{
		ID:          id,
		Name:        trimmed(payload.Name),
		Description: payload.Description,
		Image:       trimmed(payload.Image),
		Status:      payload.Status,
	}
	if err := GetStore(c).UpdateCategory(c.Request().Context(), &cat); err != nil {
		if err == store.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", nil)
	}
	auditLog(c, "update_category", fmt.Sprintf("category %d: %s", cat.ID, cat.Name))
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	ctx := c.Request().Context()
	st := GetStore(c)

	// Prevent deletion while products still reference this category
	cat, err := st.Category(ctx, id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}
	if cat.ProductCount > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_IN_USE",
			"Category is referenced by products and cannot be deleted",
			map[string]interface{}{"product_count": cat.ProductCount})
	}

	if err := st.DeleteCategory(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", nil)
	}
	auditLog(c, "delete_category", fmt.Sprintf("category %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
