package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/middleware"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
	"github.com/plantrungnampl/project-store-sub002/internal/utils"
)

// CheckoutHandler turns a cart into a PENDING order. The whole
// operation (stock decrements, order + items + initial history row,
// cart clear) runs in one transaction so a failed checkout leaves no
// partial state behind.
type CheckoutHandler struct {
	Orders   *repository.OrderRepo
	Products *repository.ProductRepo
	Carts    *repository.CartRepo
	Coupons  *repository.CouponRepo
}

func NewCheckoutHandler(o *repository.OrderRepo, p *repository.ProductRepo, ca *repository.CartRepo, co *repository.CouponRepo) *CheckoutHandler {
	if o == nil || p == nil || ca == nil || co == nil {
		panic("nil repository passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Orders: o, Products: p, Carts: ca, Coupons: co}
}

type addressReq struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

func (a addressReq) complete() bool {
	return a.Name != "" && a.Street != "" && a.City != "" && a.Zip != "" && a.Country != ""
}

func (a addressReq) toModel() model.Address {
	return model.Address{Name: a.Name, Street: a.Street, City: a.City, Zip: a.Zip, Country: a.Country}
}

type checkoutReq struct {
	Email      string     `json:"email"` // required for guests
	Shipping   addressReq `json:"shipping"`
	Billing    addressReq `json:"billing"`
	CouponCode string     `json:"coupon_code"`
}

// Checkout handles POST /v1/checkout. Guests may check out with an
// email address; logged-in customers get the order attached to their
// account.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	cartToken := readCartToken(c)
	if cartToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
	}

	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !req.Shipping.complete() || !req.Billing.complete() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shipping and billing addresses are required"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var userID *uint64
	if u, ok := middleware.CurrentUser(c); ok {
		userID = &u.ID
		if email == "" {
			email = u.Email
		}
	}
	if email == "" || !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Orders.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	cartItems, err := h.Carts.ItemsTx(ctx, tx, cartToken)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cart"})
	}
	if len(cartItems) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
	}

	ids := make([]uint64, 0, len(cartItems))
	for _, it := range cartItems {
		ids = append(ids, it.ProductID)
	}
	products, err := h.Products.GetByIDsTx(ctx, tx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load products"})
	}

	var subtotal uint32
	orderItems := make([]model.OrderItem, 0, len(cartItems))
	for _, it := range cartItems {
		p, ok := products[it.ProductID]
		if !ok || !p.IsActive {
			return c.JSON(http.StatusConflict, echo.Map{"error": "product no longer available", "product_id": it.ProductID})
		}
		if err := h.Products.DecrementStockTx(ctx, tx, p.ID, it.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient stock", "product_id": p.ID})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to reserve stock"})
		}
		subtotal += p.PriceCents * it.Quantity
		orderItems = append(orderItems, model.OrderItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       it.Quantity,
		})
	}

	var discount uint32
	var couponCode *string
	if code := strings.ToUpper(strings.TrimSpace(req.CouponCode)); code != "" {
		coupon, err := h.Coupons.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown coupon code"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check coupon"})
		}
		if !coupon.Usable(subtotal, time.Now().UTC()) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "coupon not applicable"})
		}
		discount = coupon.Discount(subtotal)
		couponCode = &code
	}

	number, err := utils.NewOrderNumber()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate order number"})
	}

	order := &model.Order{
		OrderNumber:   number,
		UserID:        userID,
		Email:         email,
		Status:        model.StatusPending,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
		CouponCode:    couponCode,
		Shipping:      req.Shipping.toModel(),
		Billing:       req.Billing.toModel(),
	}
	if err := h.Orders.CreateTx(ctx, tx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}
	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := h.Orders.CreateItemsBulkTx(ctx, tx, orderItems); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order items"})
	}
	if err := h.Orders.AppendHistoryTx(ctx, tx, order.ID, model.StatusPending, "Order placed"); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record order history"})
	}
	if err := h.Carts.ClearTx(ctx, tx, cartToken); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear cart"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"order_number":   order.OrderNumber,
		"status":         string(order.Status),
		"subtotal_cents": order.SubtotalCents,
		"discount_cents": order.DiscountCents,
		"total_cents":    order.TotalCents,
	})
}
