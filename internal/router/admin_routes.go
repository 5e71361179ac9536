package router

import (
	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/handler"
	"github.com/plantrungnampl/project-store-sub002/internal/middleware"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// AdminHandlers bundles the back-office handler set so registration
// stays a single call in main.
type AdminHandlers struct {
	Auth       *handler.AdminAuthHandler
	Products   *handler.AdminProductHandler
	Categories *handler.AdminCategoryHandler
	Coupons    *handler.AdminCouponHandler
	Banners    *handler.AdminBannerHandler
	Customers  *handler.AdminCustomerHandler
	Orders     *handler.AdminOrderHandler
}

// RegisterAdmin registers the back-office API under /v1/admin. Login
// is open; everything else requires a bearer token with the ADMIN role.
func RegisterAdmin(e *echo.Echo, h AdminHandlers, jwtSecret string) {
	e.POST("/v1/admin/login", h.Auth.Login)

	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Products ----
	g.GET("/products", h.Products.List)
	g.POST("/products", h.Products.Create)
	g.PUT("/products/:id", h.Products.Update)
	g.PATCH("/products/:id", h.Products.Update)
	g.DELETE("/products/:id", h.Products.Delete)

	// ---- Categories ----
	g.POST("/categories", h.Categories.Create)
	g.PUT("/categories/:id", h.Categories.Update)
	g.DELETE("/categories/:id", h.Categories.Delete)

	// ---- Coupons ----
	g.GET("/coupons", h.Coupons.List)
	g.POST("/coupons", h.Coupons.Create)
	g.PATCH("/coupons/:id", h.Coupons.SetActive)
	g.DELETE("/coupons/:id", h.Coupons.Delete)

	// ---- Banners ----
	g.GET("/banners", h.Banners.List)
	g.POST("/banners", h.Banners.Create)
	g.PUT("/banners/:id", h.Banners.Update)
	g.DELETE("/banners/:id", h.Banners.Delete)

	// ---- Customers ----
	g.GET("/customers", h.Customers.List)
	g.PATCH("/customers/:id", h.Customers.SetActive)

	// ---- Orders ----
	g.GET("/orders", h.Orders.List)
	g.GET("/orders/:number", h.Orders.Get)
	g.PATCH("/orders/:id/status", h.Orders.UpdateStatus)
}
