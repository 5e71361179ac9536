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

// AdminBannerHandler manages home-page banners from the back office.
type AdminBannerHandler struct {
	Banners *repository.BannerRepo
}

func NewAdminBannerHandler(b *repository.BannerRepo) *AdminBannerHandler {
	return &AdminBannerHandler{Banners: b}
}

type bannerReq struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Position uint32 `json:"position"`
	IsActive bool   `json:"is_active"`
}

func bannerResp(b *model.Banner) echo.Map {
	return echo.Map{
		"id":        b.ID,
		"title":     b.Title,
		"image_url": b.ImageURL,
		"link_url":  b.LinkURL,
		"position":  b.Position,
		"is_active": b.IsActive,
	}
}

// List handles GET /v1/admin/banners, hidden ones included.
func (h *AdminBannerHandler) List(c echo.Context) error {
	banners, err := h.Banners.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load banners"})
	}
	out := make([]echo.Map, 0, len(banners))
	for i := range banners {
		out = append(out, bannerResp(&banners[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"banners": out})
}

// Create handles POST /v1/admin/banners.
func (h *AdminBannerHandler) Create(c echo.Context) error {
	var req bannerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ImageURL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and image_url are required"})
	}
	b := model.Banner{Title: req.Title, ImageURL: req.ImageURL, LinkURL: req.LinkURL, Position: req.Position, IsActive: req.IsActive}
	id, err := h.Banners.Create(c.Request().Context(), &b)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	b.ID = id
	return c.JSON(http.StatusCreated, bannerResp(&b))
}

// Update handles PUT /v1/admin/banners/:id.
func (h *AdminBannerHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req bannerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.ImageURL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and image_url are required"})
	}
	b := model.Banner{ID: id, Title: req.Title, ImageURL: req.ImageURL, LinkURL: req.LinkURL, Position: req.Position, IsActive: req.IsActive}
	if err := h.Banners.Update(c.Request().Context(), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, bannerResp(&b))
}

// Delete handles DELETE /v1/admin/banners/:id.
func (h *AdminBannerHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Banners.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "banner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
