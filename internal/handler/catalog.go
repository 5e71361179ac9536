package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

// CatalogHandler exposes the public browse endpoints: products,
// categories and banners. These routes sit behind the Redis response
// cache; no authentication is applied.
type CatalogHandler struct {
	Products   *repository.ProductRepo
	Categories *repository.CategoryRepo
	Banners    *repository.BannerRepo
}

func NewCatalogHandler(p *repository.ProductRepo, c *repository.CategoryRepo, b *repository.BannerRepo) *CatalogHandler {
	return &CatalogHandler{Products: p, Categories: c, Banners: b}
}

type productResp struct {
	ID          uint64  `json:"id"`
	CategoryID  *uint64 `json:"category_id,omitempty"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	PriceCents  uint32  `json:"price_cents"`
	Stock       uint32  `json:"stock"`
	ImageURL    string  `json:"image_url"`
}

func toProductResp(p *model.Product) productResp {
	return productResp{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
	}
}

// parsePagination reads ?page and ?per_page with sane bounds.
func parsePagination(c echo.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return perPage, (page - 1) * perPage
}

// ListProducts handles GET /v1/products with optional ?category_id,
// ?q (name search), ?page and ?per_page.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	limit, offset := parsePagination(c)
	categoryID, _ := strconv.ParseUint(c.QueryParam("category_id"), 10, 64)
	search := c.QueryParam("q")

	products, err := h.Products.ListActive(c.Request().Context(), categoryID, search, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load products"})
	}
	out := make([]productResp, 0, len(products))
	for i := range products {
		out = append(out, toProductResp(&products[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"products": out})
}

// GetProduct handles GET /v1/products/:slug.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	slug := c.Param("slug")
	p, err := h.Products.GetBySlug(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load product"})
	}
	return c.JSON(http.StatusOK, toProductResp(p))
}

// ListCategories handles GET /v1/categories.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load categories"})
	}
	out := make([]echo.Map, 0, len(categories))
	for _, cat := range categories {
		out = append(out, echo.Map{"id": cat.ID, "name": cat.Name, "slug": cat.Slug})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out})
}

// ListBanners handles GET /v1/banners, returning only active banners
// in display order.
func (h *CatalogHandler) ListBanners(c echo.Context) error {
	banners, err := h.Banners.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load banners"})
	}
	out := make([]echo.Map, 0, len(banners))
	for _, b := range banners {
		out = append(out, echo.Map{
			"id":        b.ID,
			"title":     b.Title,
			"image_url": b.ImageURL,
			"link_url":  b.LinkURL,
			"position":  b.Position,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"banners": out})
}
