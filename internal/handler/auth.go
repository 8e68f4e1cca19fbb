package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/config"
	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/repository"
	"github.com/orifkhon/music-catalog-api/internal/utils"
	"github.com/orifkhon/music-catalog-api/internal/view"
)

// AuthHandler bundles dependencies for the register/login/me endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Roles RoleStore
}

func NewAuthHandler(cfg config.Config, users UserStore, roles RoleStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Roles: roles}
}

// Register creates a user with a hashed password. The role name is limited
// to the self-assignable set (listener by default); the created profile is
// returned without any password material.
func (h *AuthHandler) Register(c echo.Context) error {
	var in view.RegisterInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.GetByName(ctx, in.Role)
	if err != nil {
		if errors.Is(err, repository.ErrRoleNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"role": "unknown role"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	hash, err := utils.HashPassword(in.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	u := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Avatar:       in.Avatar,
		Fullname:     in.Fullname,
		RoleID:       role.ID,
		IsActive:     true,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"username": "already exists"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, view.NewUser(u))
}

// Login verifies credentials and issues a bearer access token. Unknown
// username, wrong password and inactive account all collapse into one
// generic failure so the response never reveals which part was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var in view.LoginInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if in.Username == "" || in.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, in.Password) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.RoleName, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, view.LoginResponse{Token: access.Token, User: view.NewUserPublic(u)})
}

// Me returns the caller's public profile based on the bearer token.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, view.NewUserPublic(u))
}
