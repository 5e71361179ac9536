package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

// AdminCouponHandler is the back-office coupon surface.
type AdminCouponHandler struct {
	Coupons *repository.CouponRepo
}

func NewAdminCouponHandler(cr *repository.CouponRepo) *AdminCouponHandler {
	return &AdminCouponHandler{Coupons: cr}
}

type couponReq struct {
	Code             string `json:"code"`
	PercentOff       uint8  `json:"percent_off"`
	AmountOffCents   uint32 `json:"amount_off_cents"`
	MinSubtotalCents uint32 `json:"min_subtotal_cents"`
	ExpiresAt        string `json:"expires_at"` // RFC3339, empty for no expiry
	IsActive         bool   `json:"is_active"`
}

func couponResp(co *model.Coupon) echo.Map {
	m := echo.Map{
		"id":                 co.ID,
		"code":               co.Code,
		"percent_off":        co.PercentOff,
		"amount_off_cents":   co.AmountOffCents,
		"min_subtotal_cents": co.MinSubtotalCents,
		"is_active":          co.IsActive,
	}
	if co.ExpiresAt != nil {
		m["expires_at"] = co.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return m
}

// List handles GET /v1/admin/coupons.
func (h *AdminCouponHandler) List(c echo.Context) error {
	coupons, err := h.Coupons.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load coupons"})
	}
	out := make([]echo.Map, 0, len(coupons))
	for i := range coupons {
		out = append(out, couponResp(&coupons[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"coupons": out})
}

// Create handles POST /v1/admin/coupons. Codes are stored upper-case;
// exactly one of percent_off and amount_off_cents must be set.
func (h *AdminCouponHandler) Create(c echo.Context) error {
	var req couponReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	if (req.PercentOff == 0) == (req.AmountOffCents == 0) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "set exactly one of percent_off and amount_off_cents"})
	}
	if req.PercentOff > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "percent_off must be at most 100"})
	}

	co := model.Coupon{
		Code:             code,
		PercentOff:       req.PercentOff,
		AmountOffCents:   req.AmountOffCents,
		MinSubtotalCents: req.MinSubtotalCents,
		IsActive:         req.IsActive,
	}
	if req.ExpiresAt != "" {
		t, err := time.Parse(time.RFC3339, req.ExpiresAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expires_at must be RFC3339"})
		}
		t = t.UTC()
		co.ExpiresAt = &t
	}

	id, err := h.Coupons.Create(c.Request().Context(), &co)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	co.ID = id
	return c.JSON(http.StatusCreated, couponResp(&co))
}

type couponActiveReq struct {
	IsActive bool `json:"is_active"`
}

// SetActive handles PATCH /v1/admin/coupons/:id.
func (h *AdminCouponHandler) SetActive(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req couponActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Coupons.SetActive(c.Request().Context(), id, req.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coupon not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": req.IsActive})
}

// Delete handles DELETE /v1/admin/coupons/:id.
func (h *AdminCouponHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Coupons.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "coupon not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
