package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

type settingPayload struct {
	Type  string `json:"type" validate:"required,min=1,max=100"`
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Value string `json:"value" validate:"omitempty,max=4000"`
}

func getSetting(c echo.Context) error {
	stype := trimmed(c.QueryParam("type"))
	name := trimmed(c.QueryParam("name"))
	if stype == "" || name == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "type and name are required", nil)
	}
	value, err := GetStore(c).GetSetting(c.Request().Context(), stype, name)
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Setting not found", nil)
	}
	return ok(c, map[string]interface{}{
		"type":  stype,
		"name":  name,
		"value": value,
		// convenience casts the admin UI relies on
		"int_value":  cast.ToInt64(value),
		"bool_value": cast.ToBool(value),
	})
}

func saveSetting(c echo.Context) error {
	var payload settingPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse setting", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := GetStore(c).SaveSetting(c.Request().Context(), trimmed(payload.Type), trimmed(payload.Name), payload.Value); err != nil {
		return fail(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save setting", nil)
	}
	auditLog(c, "save_setting", payload.Type+"."+payload.Name)
	return ok(c, payload)
}
