package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

// AdminProductHandler is the back-office product CRUD surface.
type AdminProductHandler struct {
	Products *repository.ProductRepo
}

func NewAdminProductHandler(p *repository.ProductRepo) *AdminProductHandler {
	return &AdminProductHandler{Products: p}
}

type productReq struct {
	CategoryID  *uint64 `json:"category_id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	Stock       uint32  `json:"stock"`
	ImageURL    string  `json:"image_url"`
	IsActive    bool    `json:"is_active"`
}

func (r productReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(r.Slug) == "" {
		return "slug is required"
	}
	if r.PriceCents == 0 {
		return "price_cents must be positive"
	}
	return ""
}

func (r productReq) toModel() model.Product {
	return model.Product{
		CategoryID:  r.CategoryID,
		Name:        strings.TrimSpace(r.Name),
		Slug:        strings.TrimSpace(r.Slug),
		Description: r.Description,
		PriceCents:  r.PriceCents,
		Stock:       r.Stock,
		ImageURL:    r.ImageURL,
		IsActive:    r.IsActive,
	}
}

type adminProductResp struct {
	productResp
	IsActive bool `json:"is_active"`
}

func toAdminProductResp(p *model.Product) adminProductResp {
	return adminProductResp{productResp: toProductResp(p), IsActive: p.IsActive}
}

// List handles GET /v1/admin/products, including hidden products.
func (h *AdminProductHandler) List(c echo.Context) error {
	limit, offset := parsePagination(c)
	products, err := h.Products.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load products"})
	}
	out := make([]adminProductResp, 0, len(products))
	for i := range products {
		out = append(out, toAdminProductResp(&products[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"products": out})
}

// Create handles POST /v1/admin/products.
func (h *AdminProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	p := req.toModel()
	id, err := h.Products.Create(c.Request().Context(), &p)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	p.ID = id
	return c.JSON(http.StatusCreated, toAdminProductResp(&p))
}

// Update handles PUT /v1/admin/products/:id.
func (h *AdminProductHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	p := req.toModel()
	p.ID = id
	if err := h.Products.Update(c.Request().Context(), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		if strings.Contains(err.Error(), "Duplicate entry") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toAdminProductResp(&p))
}

// Delete handles DELETE /v1/admin/products/:id.
func (h *AdminProductHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Products.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
