package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

// AdminCustomerHandler lets back-office staff browse customer accounts
// and suspend abusive ones. Suspension also invalidates live sessions:
// the session validator rejects inactive users on the next request.
type AdminCustomerHandler struct {
	Users *repository.UserRepo
}

func NewAdminCustomerHandler(u *repository.UserRepo) *AdminCustomerHandler {
	return &AdminCustomerHandler{Users: u}
}

// List handles GET /v1/admin/customers.
func (h *AdminCustomerHandler) List(c echo.Context) error {
	limit, offset := parsePagination(c)
	users, err := h.Users.ListCustomers(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load customers"})
	}
	out := make([]echo.Map, 0, len(users))
	for _, u := range users {
		out = append(out, echo.Map{
			"id":         u.ID,
			"email":      u.Email,
			"is_active":  u.IsActive,
			"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": out})
}

type customerActiveReq struct {
	IsActive bool `json:"is_active"`
}

// SetActive handles PATCH /v1/admin/customers/:id.
func (h *AdminCustomerHandler) SetActive(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req customerActiveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Users.SetActive(c.Request().Context(), id, req.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "is_active": req.IsActive})
}
