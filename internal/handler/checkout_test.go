package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantrungnampl/project-store-sub002/internal/repository"
)

func checkoutRequest(t *testing.T, body string, withCart bool) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if withCart {
		req.AddCookie(&http.Cookie{Name: cartCookieName, Value: "cart-token"})
	}
	rec := httptest.NewRecorder()
	return rec, echo.New().NewContext(req, rec)
}

const fullAddress = `{"name":"Jo","street":"1 Main St","city":"Springfield","zip":"12345","country":"US"}`

// The validation layer runs before any database work, so these cases
// need no repositories behind the handler.
func TestCheckoutValidation(t *testing.T) {
	h := &CheckoutHandler{
		Orders:   &repository.OrderRepo{},
		Products: &repository.ProductRepo{},
		Carts:    &repository.CartRepo{},
		Coupons:  &repository.CouponRepo{},
	}

	t.Run("no cart cookie", func(t *testing.T) {
		rec, c := checkoutRequest(t, `{}`, false)
		require.NoError(t, h.Checkout(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing billing address", func(t *testing.T) {
		rec, c := checkoutRequest(t, `{"email":"jo@example.com","shipping":`+fullAddress+`}`, true)
		require.NoError(t, h.Checkout(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("guest without email", func(t *testing.T) {
		rec, c := checkoutRequest(t, `{"shipping":`+fullAddress+`,"billing":`+fullAddress+`}`, true)
		require.NoError(t, h.Checkout(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed email", func(t *testing.T) {
		rec, c := checkoutRequest(t, `{"email":"nope","shipping":`+fullAddress+`,"billing":`+fullAddress+`}`, true)
		require.NoError(t, h.Checkout(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAddressCompleteness(t *testing.T) {
	full := addressReq{Name: "Jo", Street: "1 Main St", City: "Springfield", Zip: "12345", Country: "US"}
	assert.True(t, full.complete())

	missingZip := full
	missingZip.Zip = ""
	assert.False(t, missingZip.complete())
	assert.False(t, addressReq{}.complete())
}
