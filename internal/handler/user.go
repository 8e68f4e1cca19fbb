package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/orifkhon/music-catalog-api/internal/config"
	"github.com/orifkhon/music-catalog-api/internal/model"
	"github.com/orifkhon/music-catalog-api/internal/repository"
	"github.com/orifkhon/music-catalog-api/internal/utils"
	"github.com/orifkhon/music-catalog-api/internal/view"
)

// UserHandler exposes CRUD over the users resource, including the ?search=
// substring filter over username and fullname.
type UserHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewUserHandler(cfg config.Config, users UserStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users}
}

// List handles GET /v1/users with optional ?search=.
func (h *UserHandler) List(c echo.Context) error {
	items, err := h.Users.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]view.User, 0, len(items))
	for _, u := range items {
		out = append(out, view.NewUser(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, view.NewUser(u))
}

// Create handles POST /v1/users. Unlike registration this accepts any
// role_id, so an admin can provision staff accounts.
func (h *UserHandler) Create(c echo.Context) error {
	var in view.UserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
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
		RoleID:       in.RoleID,
		IsActive:     true,
	}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"username": "already exists"}})
		case errors.Is(err, repository.ErrUnknownRelation):
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"role_id": "unknown role"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, view.NewUser(u))
}

// Update handles PUT /v1/users/:id: the full write shape is validated and
// every mutable field is replaced.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var in view.UserInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := in.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	hash, err := utils.HashPassword(in.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	u.Username = in.Username
	u.Email = in.Email
	u.PasswordHash = hash
	u.Avatar = in.Avatar
	u.Fullname = in.Fullname
	u.RoleID = in.RoleID
	return h.saveUser(c, u)
}

// Patch handles PATCH /v1/users/:id: only the fields present in the body are
// touched; a present password is re-hashed.
func (h *UserHandler) Patch(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var p view.UserPatch
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if errs := p.Validate(); !errs.Ok() {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}
	u, err := h.Users.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if pw := p.Apply(u); pw != "" {
		hash, err := utils.HashPassword(pw, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
		}
		u.PasswordHash = hash
	}
	return h.saveUser(c, u)
}

func (h *UserHandler) saveUser(c echo.Context, u *model.User) error {
	if err := h.Users.Update(c.Request().Context(), u); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"username": "already exists"}})
		case errors.Is(err, repository.ErrUnknownRelation):
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": view.FieldErrors{"role_id": "unknown role"}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, view.NewUser(u))
}

// Delete handles DELETE /v1/users/:id. The cascades remove the user's
// albums, playlists and artist links with the row.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Users.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
