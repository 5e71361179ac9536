package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/repository"
	"github.com/plantrungnampl/project-store-sub002/internal/utils"
)

// cartCookieName holds the opaque cart token. Carts belong to a
// browser, not an account, so guests can shop before registering.
const cartCookieName = "cart_token"

// cartCookieTTL keeps abandoned carts around for a year.
const cartCookieTTL = 365 * 24 * time.Hour

// CartHandler manages the shopping cart.
type CartHandler struct {
	Carts    *repository.CartRepo
	Products *repository.ProductRepo
	Secure   bool
}

func NewCartHandler(ca *repository.CartRepo, p *repository.ProductRepo, secure bool) *CartHandler {
	return &CartHandler{Carts: ca, Products: p, Secure: secure}
}

// readCartToken returns the request's cart token or "" when none was
// issued yet. Shared with the checkout handler.
func readCartToken(c echo.Context) string {
	ck, err := c.Cookie(cartCookieName)
	if err != nil || ck.Value == "" {
		return ""
	}
	return ck.Value
}

// ensureCartToken returns the existing cart token or issues a new one.
func (h *CartHandler) ensureCartToken(c echo.Context) string {
	if tok := readCartToken(c); tok != "" {
		return tok
	}
	tok := utils.NewCartToken()
	c.SetCookie(&http.Cookie{
		Name:     cartCookieName,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().UTC().Add(cartCookieTTL),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return tok
}

type addCartItemReq struct {
	ProductID uint64 `json:"product_id"`
	Quantity  uint32 `json:"quantity"`
}

// AddItem handles POST /v1/cart/items. Adding an existing product
// increases its quantity.
func (h *CartHandler) AddItem(c echo.Context) error {
	var req addCartItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ProductID == 0 || req.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id and quantity are required"})
	}

	ctx := c.Request().Context()
	p, err := h.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
	}
	if !p.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}

	token := h.ensureCartToken(c)
	if err := h.Carts.Upsert(ctx, token, req.ProductID, req.Quantity); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add to cart"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"product_id": req.ProductID, "quantity": req.Quantity})
}

type updateCartItemReq struct {
	Quantity uint32 `json:"quantity"`
}

// UpdateItem handles PATCH /v1/cart/items/:productID. Quantity zero
// removes the line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	var req updateCartItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	token := readCartToken(c)
	if token == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "cart is empty"})
	}
	if err := h.Carts.SetQuantity(c.Request().Context(), token, productID, req.Quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not in cart"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update cart"})
	}
	return c.JSON(http.StatusOK, echo.Map{"product_id": productID, "quantity": req.Quantity})
}

// RemoveItem handles DELETE /v1/cart/items/:productID.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	token := readCartToken(c)
	if token != "" {
		if err := h.Carts.Remove(c.Request().Context(), token, productID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update cart"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// View handles GET /v1/cart, joining cart lines with current catalog
// prices.
func (h *CartHandler) View(c echo.Context) error {
	token := readCartToken(c)
	lines := make([]echo.Map, 0)
	var subtotal uint32
	if token != "" {
		ctx := c.Request().Context()
		items, err := h.Carts.Items(ctx, token)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
		}
		for _, it := range items {
			p, err := h.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					continue // product removed from catalog; skip the line
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
			}
			lineTotal := p.PriceCents * it.Quantity
			subtotal += lineTotal
			lines = append(lines, echo.Map{
				"product_id":       p.ID,
				"name":             p.Name,
				"slug":             p.Slug,
				"unit_price_cents": p.PriceCents,
				"quantity":         it.Quantity,
				"line_total_cents": lineTotal,
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines, "subtotal_cents": subtotal})
}
