package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/auth"
	"github.com/plantrungnampl/project-store-sub002/internal/config"
	"github.com/plantrungnampl/project-store-sub002/internal/middleware"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
	"github.com/plantrungnampl/project-store-sub002/internal/utils"
)

// AccountHandler bundles dependencies for customer account endpoints:
// register, login, logout, profile and order history. Login issues a
// cookie session; there are no bearer tokens on the storefront side.
type AccountHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Sessions *repository.SessionRepo
	Orders   *repository.OrderRepo
}

func NewAccountHandler(cfg config.Config, u *repository.UserRepo, s *repository.SessionRepo, o *repository.OrderRepo) *AccountHandler {
	return &AccountHandler{Cfg: cfg, Users: u, Sessions: s, Orders: o}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// issueSession creates a session row and sets the cookie. Cookie write
// failures are not detectable here and do not matter: the client just
// ends up logged out.
func (h *AccountHandler) issueSession(c echo.Context, ctx context.Context, userID uint64) error {
	tok, err := utils.NewSessionToken(h.Cfg.SessionTTL())
	if err != nil {
		return err
	}
	if err := h.Sessions.Create(ctx, userID, utils.HashSessionToken(tok.Raw), tok.Exp); err != nil {
		return err
	}
	auth.SetSessionCookie(c, tok.Raw, tok.Exp, h.Cfg.IsProd())
	return nil
}

// Register creates a customer account and logs it in immediately.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password too short"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, model.RoleCustomer, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	if err := h.issueSession(c, ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"user": userPart{ID: uid, Email: req.Email, Role: model.RoleCustomer},
	})
}

// Login verifies credentials and starts a fresh session.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := h.issueSession(c, ctx, u.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user": userPart{ID: u.ID, Email: u.Email, Role: u.Role},
	})
}

// Logout deletes the current session row and blanks the cookie. Safe
// to call without a session.
func (h *AccountHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Sessions.Delete(ctx, utils.HashSessionToken(cookie.Value)); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
		}
	}
	auth.ClearSessionCookie(c, h.Cfg.IsProd())
	return c.NoContent(http.StatusNoContent)
}

// Me returns the session user. Mounted behind RequireSession.
func (h *AccountHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": userPart{ID: u.ID, Email: u.Email, Role: u.Role},
	})
}

// MyOrders lists the user's orders, newest first.
func (h *AccountHandler) MyOrders(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Orders.ListByUser(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	out := make([]echo.Map, 0, len(orders))
	for _, o := range orders {
		out = append(out, echo.Map{
			"order_number": o.OrderNumber,
			"status":       string(o.Status),
			"total_cents":  o.TotalCents,
			"created_at":   o.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": out})
}
