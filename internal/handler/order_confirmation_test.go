package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantrungnampl/project-store-sub002/internal/auth"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/queue"
)

// memOrders is an in-memory OrderConfirmer with the same serialization
// guarantees as the SQL implementation: the mutex stands in for the
// conditional UPDATE.
type memOrders struct {
	mu         sync.Mutex
	order      model.Order
	notified   bool
	historyLen int

	confirmErr error
	notifyErr  error
}

func (m *memOrders) GetByNumber(_ context.Context, number string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if number != m.order.OrderNumber {
		return nil, sql.ErrNoRows
	}
	o := m.order
	return &o, nil
}

func (m *memOrders) ConfirmPending(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.confirmErr != nil {
		return false, m.confirmErr
	}
	if number != m.order.OrderNumber || m.order.Status != model.StatusPending {
		return false, nil
	}
	m.order.Status = model.StatusConfirmed
	m.historyLen++
	return true, nil
}

func (m *memOrders) MarkNotified(_ context.Context, number string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.notifyErr != nil {
		return false, m.notifyErr
	}
	if number != m.order.OrderNumber || m.notified {
		return false, nil
	}
	m.notified = true
	return true, nil
}

// countingPublisher records dispatched events.
type countingPublisher struct {
	mu     sync.Mutex
	events []queue.OrderConfirmedEvent
	err    error
}

func (p *countingPublisher) PublishOrderConfirmed(_ context.Context, ev queue.OrderConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *countingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func pendingOrder(number string) model.Order {
	return model.Order{
		ID:            1,
		OrderNumber:   number,
		Email:         "jo@example.com",
		Status:        model.StatusPending,
		SubtotalCents: 5000,
		TotalCents:    5000,
		CreatedAt:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Items:         []model.OrderItem{{ProductID: 9, ProductName: "Mug", UnitPriceCents: 2500, Quantity: 2}},
	}
}

func showRequest(t *testing.T, h *OrderConfirmationHandler, number string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, orderResp) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetPath("/v1/orders/:number/confirmation")
	c.SetParamNames("number")
	c.SetParamValues(number)

	require.NoError(t, h.Show(c))

	var body orderResp
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func markerCookie(rec *httptest.ResponseRecorder, number string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.ConfirmationMarkerName(number) {
			return ck
		}
	}
	return nil
}

func TestShowConfirmsPendingOrder(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001")}
	pub := &countingPublisher{}
	h := NewOrderConfirmationHandler(orders, pub, false)

	rec, body := showRequest(t, h, "ORD-0000000001")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", body.Status, "the first view flips PENDING to CONFIRMED")
	assert.Equal(t, 1, orders.historyLen)
	assert.Equal(t, 1, pub.count())
	require.Len(t, pub.events, 1)
	assert.Equal(t, "jo@example.com", pub.events[0].RecipientEmail)

	ck := markerCookie(rec, "ORD-0000000001")
	require.NotNil(t, ck, "dedupe marker must be set after dispatch")
	assert.Equal(t, "sent", ck.Value)
}

func TestShowUnknownOrder(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001")}
	h := NewOrderConfirmationHandler(orders, &countingPublisher{}, false)

	rec, _ := showRequest(t, h, "ORD-MISSING")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowSecondViewIsIdempotent(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001")}
	pub := &countingPublisher{}
	h := NewOrderConfirmationHandler(orders, pub, false)

	first, _ := showRequest(t, h, "ORD-0000000001")
	marker := markerCookie(first, "ORD-0000000001")
	require.NotNil(t, marker)

	// Same browser again, marker attached.
	rec, body := showRequest(t, h, "ORD-0000000001", marker)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", body.Status)
	assert.Equal(t, 1, orders.historyLen, "no second history row")
	assert.Equal(t, 1, pub.count(), "no second dispatch")
}

func TestShowOtherBrowserBlockedByServerFlag(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001")}
	pub := &countingPublisher{}
	h := NewOrderConfirmationHandler(orders, pub, false)

	showRequest(t, h, "ORD-0000000001")

	// A different device has no marker cookie; the notified_at flag
	// still suppresses the duplicate send.
	rec, _ := showRequest(t, h, "ORD-0000000001")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, pub.count())
	assert.NotNil(t, markerCookie(rec, "ORD-0000000001"), "the marker is set even when another device dispatched")
}

func TestShowConcurrentViewsConfirmOnceNotifyOnce(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001")}
	pub := &countingPublisher{}
	h := NewOrderConfirmationHandler(orders, pub, false)

	const n = 16
	var wg sync.WaitGroup
	codes := make([]int, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			rec, _ := showRequest(t, h, "ORD-0000000001")
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code, "every concurrent view renders")
	}
	assert.Equal(t, model.StatusConfirmed, orders.order.Status)
	assert.Equal(t, 1, orders.historyLen, "exactly one history row despite %d racing views", n)
	assert.Equal(t, 1, pub.count(), "exactly one dispatch despite %d racing views", n)
}

func TestShowRendersStaleDataWhenConfirmFails(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001"), confirmErr: errors.New("deadlock")}
	pub := &countingPublisher{}
	h := NewOrderConfirmationHandler(orders, pub, false)

	rec, body := showRequest(t, h, "ORD-0000000001")

	assert.Equal(t, http.StatusOK, rec.Code, "a failed transition must not fail the page")
	assert.Equal(t, "PENDING", body.Status)
	assert.Equal(t, 0, pub.count(), "no notice for an order still pending")
	assert.Nil(t, markerCookie(rec, "ORD-0000000001"))
}

func TestShowNoDispatchWhenFlagClaimFails(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001"), notifyErr: errors.New("timeout")}
	pub := &countingPublisher{}
	h := NewOrderConfirmationHandler(orders, pub, false)

	rec, body := showRequest(t, h, "ORD-0000000001")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", body.Status)
	assert.Equal(t, 0, pub.count(), "without the flag the notice must not be sent")
	assert.Nil(t, markerCookie(rec, "ORD-0000000001"), "no marker when the flag write failed, so a retry can send later")
}

func TestShowPublishFailureStillRenders(t *testing.T) {
	orders := &memOrders{order: pendingOrder("ORD-0000000001")}
	pub := &countingPublisher{err: errors.New("broker down")}
	h := NewOrderConfirmationHandler(orders, pub, false)

	rec, body := showRequest(t, h, "ORD-0000000001")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", body.Status)
	assert.NotNil(t, markerCookie(rec, "ORD-0000000001"))
}

func TestShowCanceledOrderNeverNotifies(t *testing.T) {
	o := pendingOrder("ORD-0000000001")
	o.Status = model.StatusCanceled
	orders := &memOrders{order: o}
	pub := &countingPublisher{}
	h := NewOrderConfirmationHandler(orders, pub, false)

	rec, body := showRequest(t, h, "ORD-0000000001")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CANCELED", body.Status)
	assert.Equal(t, 0, orders.historyLen)
	assert.Equal(t, 0, pub.count())
	assert.Nil(t, markerCookie(rec, "ORD-0000000001"))
}
