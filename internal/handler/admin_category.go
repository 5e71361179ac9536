package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

// AdminCategoryHandler is the back-office category CRUD surface.
type AdminCategoryHandler struct {
	Categories *repository.CategoryRepo
}

func NewAdminCategoryHandler(cr *repository.CategoryRepo) *AdminCategoryHandler {
	return &AdminCategoryHandler{Categories: cr}
}

type categoryReq struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Create handles POST /v1/admin/categories.
func (h *AdminCategoryHandler) Create(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name, req.Slug = strings.TrimSpace(req.Name), strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}
	id, err := h.Categories.Create(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "slug already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name, "slug": req.Slug})
}

// Update handles PUT /v1/admin/categories/:id.
func (h *AdminCategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req categoryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name, req.Slug = strings.TrimSpace(req.Name), strings.TrimSpace(req.Slug)
	if req.Name == "" || req.Slug == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and slug are required"})
	}
	if err := h.Categories.Update(c.Request().Context(), id, req.Name, req.Slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "name": req.Name, "slug": req.Slug})
}

// Delete handles DELETE /v1/admin/categories/:id. Categories still
// holding products cannot be deleted.
func (h *AdminCategoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Categories.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "category still has products"})
		}
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
