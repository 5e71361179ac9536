package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/auth"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/queue"
	queue_publisher "github.com/plantrungnampl/project-store-sub002/internal/service"
)

// OrderConfirmer is the slice of the order repository the confirmation
// page needs. Kept narrow so tests can drive the flow with an
// in-memory implementation.
type OrderConfirmer interface {
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ConfirmPending(ctx context.Context, number string) (bool, error)
	MarkNotified(ctx context.Context, number string) (bool, error)
}

// OrderConfirmationHandler serves GET /v1/orders/:number/confirmation:
// order lookup, the PENDING→CONFIRMED transition, and the at-most-once
// dispatch of the confirmation notice. The page must render with the
// best-known order data even when the transition or the dispatch
// fails; only a failed lookup is an error.
type OrderConfirmationHandler struct {
	Orders    OrderConfirmer
	Publisher queue_publisher.Publisher
	Secure    bool // secure attribute on the marker cookie (prod)
}

func NewOrderConfirmationHandler(orders OrderConfirmer, pub queue_publisher.Publisher, secure bool) *OrderConfirmationHandler {
	return &OrderConfirmationHandler{Orders: orders, Publisher: pub, Secure: secure}
}

type orderItemResp struct {
	ProductID      uint64 `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents uint32 `json:"unit_price_cents"`
	Quantity       uint32 `json:"quantity"`
}

type orderResp struct {
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	Email         string          `json:"email"`
	SubtotalCents uint32          `json:"subtotal_cents"`
	DiscountCents uint32          `json:"discount_cents"`
	TotalCents    uint32          `json:"total_cents"`
	CouponCode    *string         `json:"coupon_code,omitempty"`
	Shipping      model.Address   `json:"shipping"`
	Billing       model.Address   `json:"billing"`
	Items         []orderItemResp `json:"items"`
	CreatedAt     string          `json:"created_at"`
}

func toOrderResp(o *model.Order) orderResp {
	items := make([]orderItemResp, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResp{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
		})
	}
	return orderResp{
		OrderNumber:   o.OrderNumber,
		Status:        string(o.Status),
		Email:         o.Email,
		SubtotalCents: o.SubtotalCents,
		DiscountCents: o.DiscountCents,
		TotalCents:    o.TotalCents,
		CouponCode:    o.CouponCode,
		Shipping:      o.Shipping,
		Billing:       o.Billing,
		Items:         items,
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Show handles the confirmation page. Sequence within one request is
// fixed: lookup, then the conditional status transition, then the
// notification guard. The transition races with concurrent requests
// for the same order number; the conditional UPDATE inside
// ConfirmPending guarantees exactly one CONFIRMED write and one
// history row no matter how many requests arrive.
func (h *OrderConfirmationHandler) Show(c echo.Context) error {
	number := c.Param("number")
	if number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order number required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "order lookup failed"})
	}

	if o.Status == model.StatusPending {
		if _, err := h.Orders.ConfirmPending(ctx, number); err != nil {
			// Transient write failure: render the pre-transition data
			// rather than failing the whole page.
			log.Printf("order-confirmation: confirm %s: %v", number, err)
		} else {
			// Either this request transitioned the order or a
			// concurrent one already had; both observe CONFIRMED.
			o.Status = model.StatusConfirmed
		}
	}

	h.maybeNotify(ctx, c, o)

	return c.JSON(http.StatusOK, toOrderResp(o))
}

// maybeNotify dispatches the confirmation notice at most once per
// order. The durable guard is the notified_at column, claimed with a
// conditional update; the marker cookie is a cheap browser-local
// short-circuit kept in front of it. Every failure here is logged and
// swallowed so the page always renders.
func (h *OrderConfirmationHandler) maybeNotify(ctx context.Context, c echo.Context, o *model.Order) {
	if o.Status == model.StatusPending || o.Status == model.StatusCanceled {
		return
	}
	if auth.HasConfirmationMarker(c, o.OrderNumber) {
		return
	}

	owned, err := h.Orders.MarkNotified(ctx, o.OrderNumber)
	if err != nil {
		log.Printf("order-confirmation: mark notified %s: %v", o.OrderNumber, err)
		return
	}
	if owned {
		ev := queue.OrderConfirmedEvent{
			OrderNumber:    o.OrderNumber,
			RecipientEmail: o.Email,
			TotalCents:     o.TotalCents,
			ItemCount:      len(o.Items),
			ConfirmedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if pubErr := h.Publisher.PublishOrderConfirmed(ctx, ev); pubErr != nil {
			log.Printf("order-confirmation: publish %s: %v", o.OrderNumber, pubErr)
		}
	}
	// Either this request dispatched or another device already did;
	// both cases suppress further lookups from this browser.
	auth.SetConfirmationMarker(c, o.OrderNumber, h.Secure)
}
