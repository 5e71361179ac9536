package router

import (
	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/handler"
)

// RegisterRoutes registers routes that carry no authentication or
// storefront state. Currently that is only the health check used by
// load balancers.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}
