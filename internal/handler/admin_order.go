package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

// AdminOrderHandler is the back-office order surface: list, detail with
// history, and manual status transitions along the fulfilment chain.
type AdminOrderHandler struct {
	Orders *repository.OrderRepo
}

func NewAdminOrderHandler(o *repository.OrderRepo) *AdminOrderHandler {
	return &AdminOrderHandler{Orders: o}
}

// List handles GET /v1/admin/orders.
func (h *AdminOrderHandler) List(c echo.Context) error {
	limit, offset := parsePagination(c)
	orders, err := h.Orders.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	out := make([]echo.Map, 0, len(orders))
	for _, o := range orders {
		out = append(out, echo.Map{
			"id":           o.ID,
			"order_number": o.OrderNumber,
			"email":        o.Email,
			"status":       string(o.Status),
			"total_cents":  o.TotalCents,
			"created_at":   o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": out})
}

// Get handles GET /v1/admin/orders/:number, returning the full
// aggregate plus the status history.
func (h *AdminOrderHandler) Get(c echo.Context) error {
	number := c.Param("number")
	ctx := c.Request().Context()
	o, err := h.Orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
	}
	history, err := h.Orders.HistoryByOrderID(ctx, o.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load history"})
	}
	hist := make([]echo.Map, 0, len(history))
	for _, e := range history {
		hist = append(hist, echo.Map{
			"status":     string(e.Status),
			"comment":    e.Comment,
			"created_at": e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"order": toOrderResp(o), "history": hist})
}

type orderStatusReq struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// UpdateStatus handles PATCH /v1/admin/orders/:id/status. The current
// status is re-read and the write is guarded on it, so a stale admin
// view or a concurrent edit surfaces as 409 instead of a silent
// double-transition.
func (h *AdminOrderHandler) UpdateStatus(c echo.Context) error {
	orderID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req orderStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	to := model.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !to.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	from, err := h.Orders.GetStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
	}
	if !from.CanTransitionTo(to) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "illegal transition",
			"from":  string(from),
			"to":    string(to),
		})
	}

	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		comment = "Status changed to " + string(to)
	}
	ok, err := h.Orders.UpdateStatus(ctx, orderID, from, to, comment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if !ok {
		// Someone else moved the order between our read and write.
		return c.JSON(http.StatusConflict, echo.Map{"error": "order status changed concurrently"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": orderID, "status": string(to)})
}
