// Package auth implements cookie-session validation for the
// storefront: reading the session cookie, resolving the session and
// user from storage, renewing near-expiry sessions and clearing stale
// cookies. It also owns the order-confirmation marker cookie.
package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the name of the customer session cookie. Its
// value is the raw opaque session token.
const SessionCookieName = "storefront_session"

// markerTTL bounds how long a confirmation marker cookie dedupes the
// confirmation notice on one browser.
const markerTTL = 30 * 24 * time.Hour

// SetSessionCookie issues the session cookie. Cookie writes are a side
// effect, not a correctness requirement: echo buffers headers, and if
// the response already started streaming the write is silently lost,
// which callers accept.
func SetSessionCookie(c echo.Context, token string, expires time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie overwrites the session cookie with a blank,
// already-expired value so the browser drops it.
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ConfirmationMarkerName returns the per-order marker cookie name.
func ConfirmationMarkerName(orderNumber string) string {
	return "order_confirmation_" + orderNumber
}

// HasConfirmationMarker reports whether the request carries the
// dedupe marker for the given order.
func HasConfirmationMarker(c echo.Context, orderNumber string) bool {
	ck, err := c.Cookie(ConfirmationMarkerName(orderNumber))
	return err == nil && ck.Value != ""
}

// SetConfirmationMarker writes the 30-day dedupe marker for the given
// order. The cookie only guards one browser; the durable guard is the
// notified_at column on the order row.
func SetConfirmationMarker(c echo.Context, orderNumber string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     ConfirmationMarkerName(orderNumber),
		Value:    "sent",
		Path:     "/",
		Expires:  time.Now().UTC().Add(markerTTL),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
