package router

import (
	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/handler"
	"github.com/plantrungnampl/project-store-sub002/internal/middleware"
)

// RegisterCatalog registers the public browse endpoints under /v1.
// These are read-only and sit behind the Redis response cache when one
// is configured; guests hit them without any session.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/products", h.ListProducts)
	g.GET("/products/:slug", h.GetProduct)
	g.GET("/categories", h.ListCategories)
	g.GET("/banners", h.ListBanners)
}

// RegisterStorefront registers the customer-facing flow: accounts,
// cart, checkout and the order confirmation page. LoadSession is
// applied globally in main, so every handler here can consult
// middleware.CurrentUser; only the routes in the session group require
// one.
func RegisterStorefront(
	e *echo.Echo,
	account *handler.AccountHandler,
	cart *handler.CartHandler,
	checkout *handler.CheckoutHandler,
	confirmation *handler.OrderConfirmationHandler,
	wishlist *handler.WishlistHandler,
) {
	v1 := e.Group("/v1")

	// Accounts. Register and login issue the session cookie themselves.
	v1.POST("/auth/register", account.Register)
	v1.POST("/auth/login", account.Login)
	v1.POST("/auth/logout", account.Logout)

	// Cart and checkout work for guests; the cart rides on its own
	// token cookie, and checkout attaches the order to the session
	// user when one is present.
	v1.GET("/cart", cart.View)
	v1.POST("/cart/items", cart.AddItem)
	v1.PATCH("/cart/items/:productID", cart.UpdateItem)
	v1.DELETE("/cart/items/:productID", cart.RemoveItem)
	v1.POST("/checkout", checkout.Checkout)

	// The confirmation page is reachable by order number alone so the
	// post-checkout redirect works for guests too.
	v1.GET("/orders/:number/confirmation", confirmation.Show)

	// Session-only endpoints.
	sess := v1.Group("", middleware.RequireSession())
	sess.GET("/me", account.Me)
	sess.GET("/my-orders", account.MyOrders)
	sess.GET("/wishlist", wishlist.List)
	sess.POST("/wishlist", wishlist.Add)
	sess.DELETE("/wishlist/:productID", wishlist.Remove)
}
