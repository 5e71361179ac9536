package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/auth"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
)

// Context keys for the resolved session pair. Handlers read them via
// CurrentUser / CurrentSession instead of re-running validation.
const (
	ctxKeyUser    = "current_user"
	ctxKeySession = "current_session"
)

// LoadSession validates the session cookie exactly once per request
// and stashes the result in the echo context. Every downstream caller
// observes the same pair, so there is no hidden cross-call cache. A
// missing or stale session is not an error; only a storage read
// failure aborts the request.
func LoadSession(v *auth.Validator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, sess, err := v.Validate(c)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session lookup failed"})
			}
			if user != nil {
				c.Set(ctxKeyUser, user)
				c.Set(ctxKeySession, sess)
			}
			return next(c)
		}
	}
}

// RequireSession rejects requests that did not resolve to a logged-in
// user. Must run after LoadSession.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "login required"})
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user resolved by LoadSession, if any.
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(ctxKeyUser).(*model.User)
	return u, ok && u != nil
}

// CurrentSession returns the session resolved by LoadSession, if any.
func CurrentSession(c echo.Context) (*model.Session, bool) {
	s, ok := c.Get(ctxKeySession).(*model.Session)
	return s, ok && s != nil
}
