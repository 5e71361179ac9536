package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getAdminID extracts the admin's user ID set by the JWT middleware.
// The sub claim round-trips through JSON as float64 but tests set it
// directly, so both shapes are accepted.
func getAdminID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// parseID reads a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
