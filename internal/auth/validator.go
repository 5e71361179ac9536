package auth

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/utils"
)

// Store is the storage contract the validator needs. Lookup returns
// (nil, nil, nil) when no session matches the hash; errors mean the
// storage itself failed and must not be mistaken for "logged out".
type Store interface {
	Lookup(ctx context.Context, tokenHash string) (*model.Session, *model.User, error)
	Extend(ctx context.Context, tokenHash string, exp time.Time) error
	Delete(ctx context.Context, tokenHash string) error
}

// Validator resolves the request's session cookie into a user/session
// pair. Callers observe exactly two shapes: both non-nil, or both nil.
type Validator struct {
	Store       Store
	TTL         time.Duration // full session lifetime on creation/renewal
	RenewWithin time.Duration // sessions expiring within this window are extended
	Secure      bool          // secure attribute on issued cookies (prod)
}

// Validate implements the session read path:
//
//  1. no cookie: return the null pair without touching storage;
//  2. unknown session: clear the cookie, return the null pair;
//  3. expired session: same as unknown, plus a best-effort row delete;
//  4. valid and close to expiry: extend in storage and reissue the
//     cookie with the later expiry;
//  5. valid otherwise: return the pair unchanged.
//
// Cookie writes and the renewal UPDATE are best-effort; only a failed
// storage read is surfaced as an error.
func (v *Validator) Validate(c echo.Context) (*model.User, *model.Session, error) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil, nil
	}

	ctx := c.Request().Context()
	hash := utils.HashSessionToken(cookie.Value)
	sess, user, err := v.Store.Lookup(ctx, hash)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if sess == nil || sess.Expired(now) || !user.IsActive {
		if sess != nil {
			if delErr := v.Store.Delete(ctx, hash); delErr != nil {
				log.Printf("auth: delete stale session: %v", delErr)
			}
		}
		ClearSessionCookie(c, v.Secure)
		return nil, nil, nil
	}

	if sess.Fresh(now, v.RenewWithin) {
		newExp := now.Add(v.TTL)
		if extErr := v.Store.Extend(ctx, hash, newExp); extErr != nil {
			// Renewal is opportunistic; the session stays valid on its
			// old expiry.
			log.Printf("auth: extend session: %v", extErr)
		} else {
			sess.ExpiresAt = newExp
			SetSessionCookie(c, cookie.Value, newExp, v.Secure)
		}
	}

	return user, sess, nil
}
