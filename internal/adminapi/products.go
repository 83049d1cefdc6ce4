package adminapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/pkg/common"
)

type productPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=4000"`
	Price       float64 `json:"price" validate:"gte=0"`
	CategoryID  int64   `json:"category_id"`
	MarkaID     int64   `json:"marka_id"`
	Image       string  `json:"image" validate:"omitempty,max=1024"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// parseProductFilter maps query params 1:1 onto the store filter
func parseProductFilter(c echo.Context) store.ProductFilter {
	var filter store.ProductFilter
	if v, err := strconv.ParseInt(c.QueryParam("category"), 10, 64); err == nil {
		filter.CategoryID = v
	}
	if v, err := strconv.ParseInt(c.QueryParam("marka"), 10, 64); err == nil {
		filter.MarkaID = v
	}
	if q := trimmed(c.QueryParam("search")); q != "" {
		filter.Search = q
	} else if q := trimmed(c.QueryParam("q")); q != "" {
		filter.Search = q
	}
	if v, err := strconv.ParseFloat(c.QueryParam("minPrice"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.QueryParam("maxPrice"), 64); err == nil {
		filter.MaxPrice = &v
	}
	return filter
}

// listPublicProducts serves the public catalog, active products only
func listPublicProducts(c echo.Context) error {
	filter := parseProductFilter(c)
	filter.Status = common.StatusActive
	products, err := GetStore(c).Products(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}
	return ok(c, products)
}

func getPublicProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetStore(c).Product(c.Request().Context(), id)
	if err != nil || p.Status != common.StatusActive {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	filter := parseProductFilter(c)
	if status := trimmed(c.QueryParam("status")); status != "" {
		filter.Status = status
	}

	products, err := GetStore(c).Products(c.Request().Context(), filter)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", nil)
	}

	total := int64(len(products))
	start := (page - 1) * pageSize
	if start > len(products) {
		start = len(products)
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return paged(c, products[start:end], total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetStore(c).Product(c.Request().Context(), id)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Status == "" {
		payload.Status = common.StatusActive
	}

	p := domain.Product{
		Name:        trimmed(payload.Name),
		Description: payload.Description,
		Price:       payload.Price,
		CategoryID:  payload.CategoryID,
		MarkaID:     payload.MarkaID,
		Image:       trimmed(payload.Image),
		Stock:       payload.Stock,
		Status:      payload.Status,
	}
	if err := GetStore(c).CreateProduct(c.Request().Context(), &p); err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", nil)
	}
	auditLog(c, "create_product", fmt.Sprintf("product %d: %s", p.ID, p.Name))
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if payload.Status == "" {
		payload.Status = common.StatusActive
	}

	p := domain.Product{
		ID:          id,
		Name:        trimmed(payload.Name),
		Description: payload.Description,
		Price:       payload.Price,
		CategoryID:  payload.CategoryID,
		MarkaID:     payload.MarkaID,
		Image:       trimmed(payload.Image),
		Stock:       payload.Stock,
		Status:      payload.Status,
	}
	if err := GetStore(c).UpdateProduct(c.Request().Context(), &p); err != nil {
		if err == store.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", nil)
	}
	auditLog(c, "update_product", fmt.Sprintf("product %d: %s", p.ID, p.Name))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetStore(c).DeleteProduct(c.Request().Context(), id); err != nil {
		if err == store.ErrNotFound {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
		}
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", nil)
	}
	auditLog(c, "delete_product", fmt.Sprintf("product %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
