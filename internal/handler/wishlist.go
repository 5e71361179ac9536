package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/middleware"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

// WishlistHandler manages per-account wishlists. All routes sit behind
// RequireSession.
type WishlistHandler struct {
	Wishlists *repository.WishlistRepo
	Products  *repository.ProductRepo
}

func NewWishlistHandler(w *repository.WishlistRepo, p *repository.ProductRepo) *WishlistHandler {
	return &WishlistHandler{Wishlists: w, Products: p}
}

type addWishlistReq struct {
	ProductID uint64 `json:"product_id"`
}

// Add handles POST /v1/wishlist.
func (h *WishlistHandler) Add(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addWishlistReq
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
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
	if err := h.Wishlists.Add(ctx, u.ID, req.ProductID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update wishlist"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"product_id": req.ProductID})
}

// Remove handles DELETE /v1/wishlist/:productID.
func (h *WishlistHandler) Remove(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
	if err != nil || productID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid product id"})
	}
	if err := h.Wishlists.Remove(c.Request().Context(), u.ID, productID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update wishlist"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/wishlist, resolving each entry against the
// current catalog. Entries whose product has since been deleted or
// hidden are dropped from the response but left in the table.
func (h *WishlistHandler) List(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	entries, err := h.Wishlists.List(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load wishlist"})
	}
	out := make([]productResp, 0, len(entries))
	for _, e := range entries {
		p, err := h.Products.GetByID(ctx, e.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load wishlist"})
		}
		if !p.IsActive {
			continue
		}
		out = append(out, toProductResp(p))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
