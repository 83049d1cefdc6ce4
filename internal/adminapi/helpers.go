// Package adminapi implements the REST handlers for the catalog admin panel
// and the public catalog endpoints.
package adminapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/MetlebHuseynov/proline-website-sub000/config"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/domain"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/featured"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/store"
	"github.com/MetlebHuseynov/proline-website-sub000/internal/webserver"
)

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type pagedData struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message, Details: details},
	})
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return ok(c, pagedData{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func handleValidationError(c echo.Context, err error) error {
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Validation failed", err.Error())
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// GetStore returns the store facade injected by the webserver middleware
func GetStore(c echo.Context) store.Store {
	return c.Get(webserver.CtxStore).(store.Store)
}

func GetConfig(c echo.Context) *config.AppConfig {
	return c.Get(webserver.CtxConfig).(*config.AppConfig)
}

// GetCurator resolves the curator for a featured list type, nil when the
// type is unknown
func GetCurator(c echo.Context, listType string) *featured.Curator {
	curators, ok := c.Get(webserver.CtxCurators).(map[string]*featured.Curator)
	if !ok {
		return nil
	}
	return curators[listType]
}

// auditLog records a mutating admin call; failures are logged and swallowed,
// the audit trail never blocks the operation itself
func auditLog(c echo.Context, action, desc string) {
	claims := webserver.CurrentClaims(c)
	name := "anonymous"
	if claims != nil {
		name = claims.Username
	}
	err := GetStore(c).AddOprLog(context.Background(), &domain.SysOprLog{
		OprName:   name,
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
	})
	if err != nil {
		zap.L().Warn("audit log write failed", zap.String("action", action), zap.Error(err))
	}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
