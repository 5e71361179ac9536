package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/plantrungnampl/project-store-sub002/internal/config"
	"github.com/plantrungnampl/project-store-sub002/internal/model"
	"github.com/plantrungnampl/project-store-sub002/internal/repository"
	"github.com/plantrungnampl/project-store-sub002/internal/utils"
)

// AdminAuthHandler issues bearer tokens for the back-office API. Only
// accounts with the ADMIN role can log in here; customers use cookie
// sessions on the storefront.
type AdminAuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAdminAuthHandler(cfg config.Config, u *repository.UserRepo) *AdminAuthHandler {
	return &AdminAuthHandler{Cfg: cfg, Users: u}
}

// Login handles POST /v1/admin/login.
func (h *AdminAuthHandler) Login(c echo.Context) error {
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
	if u.Role != model.RoleAdmin || !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AdminTokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issue failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
	})
}
