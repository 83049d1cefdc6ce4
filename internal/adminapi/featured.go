package adminapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/featured"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
)

type featuredReplacePayload struct {
	IDs []int64 `json:"ids" validate:"required"`
}

func curatorFromPath(c echo.Context) (*featured.Curator, error) {
	listType := c.Param("type")
	cur := GetCurator(c, listType)
	if cur == nil {
		return nil, errors.Errorf("unknown featured list type: %s", listType)
	}
	return cur, nil
}

// listPublicFeatured serves the public projection of a featured list
func listPublicFeatured(c echo.Context) error {
	cur, err := curatorFromPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_LIST_TYPE", err.Error(), nil)
	}
	items, err := cur.ListPublic(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load featured list", nil)
	}
	return ok(c, items)
}

// listFeatured serves the admin view with full target details
func listFeatured(c echo.Context) error {
	cur, err := curatorFromPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_LIST_TYPE", err.Error(), nil)
	}
	details, err := cur.ListWithDetails(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load featured list", nil)
	}
	return ok(c, details)
}

// replaceFeatured rebuilds a featured list from an ordered id array
func replaceFeatured(c echo.Context) error {
	cur, err := curatorFromPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_LIST_TYPE", err.Error(), nil)
	}
	var payload featuredReplacePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse featured list", nil)
	}

	entries, err := cur.Replace(c.Request().Context(), payload.IDs)
	if err != nil {
		if errors.Is(err, featured.ErrLimitExceeded) {
			return fail(c, http.StatusBadRequest, "LIMIT_EXCEEDED",
				fmt.Sprintf("Featured list allows at most %d entries", cur.Max()), nil)
		}
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save featured list", nil)
	}
	auditLog(c, "replace_featured", fmt.Sprintf("%s list rebuilt with %d entries", c.Param("type"), len(entries)))
	return ok(c, entries)
}

// removeFeatured drops one entry and renumbers the remainder
func removeFeatured(c echo.Context) error {
	cur, err := curatorFromPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_LIST_TYPE", err.Error(), nil)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID", nil)
	}
	if err := cur.Remove(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Featured entry not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to update featured list", nil)
	}
	auditLog(c, "remove_featured", fmt.Sprintf("%s entry %d removed", c.Param("type"), id))
	return ok(c, map[string]interface{}{"id": id})
}
