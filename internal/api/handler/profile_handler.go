package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/komunidad/bulletin-board/internal/api/middleware"
	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/ports"
)

// AreaLister is the read side of the area directory.
type AreaLister interface {
	List(ctx context.Context) ([]domain.Area, error)
}

// ProfileHandler serves the caller's own profile document.
type ProfileHandler struct {
	profiles ports.ProfileRepository
	areas    AreaLister
}

func NewProfileHandler(profiles ports.ProfileRepository, areas AreaLister) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, areas: areas}
}

// Get handles GET /v1/profiles/:uid.
//
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        uid  path      string  true  "Identity uid (must be the caller)"
// @Success      200  {object}  domain.UserProfile
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/profiles/{uid} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := h.self(c)
	if err != nil {
		return err
	}

	p, err := h.profiles.Get(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles PUT /v1/profiles/:uid. A profile is written once.
//
// @Summary      Create the caller's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        uid   path      string                true  "Identity uid (must be the caller)"
// @Param        body  body      createProfileRequest  true  "Role and area"
// @Success      201   {object}  domain.UserProfile
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Router       /v1/profiles/{uid} [put]
func (h *ProfileHandler) Create(c echo.Context) error {
	uid, err := h.self(c)
	if err != nil {
		return err
	}

	var req createProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	areas, err := h.areas.List(ctx)
	if err != nil {
		return err
	}
	if !hasArea(areas, req.AreaID) {
		return domain.ErrAreaNotFound
	}

	email, _ := c.Get(middleware.CtxEmail).(string)
	p := &domain.UserProfile{
		UID:    uid,
		Email:  email,
		Role:   domain.Role(req.Role),
		AreaID: req.AreaID,
	}
	if err := h.profiles.Create(ctx, p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// self returns the path uid when it names the caller.
func (h *ProfileHandler) self(c echo.Context) (string, error) {
	uid, err := ctxUID(c)
	if err != nil {
		return "", err
	}
	if c.Param("uid") != uid {
		return "", domain.ErrForbidden
	}
	return uid, nil
}

func hasArea(areas []domain.Area, id string) bool {
	for _, a := range areas {
		if a.ID == id {
			return true
		}
	}
	return false
}

// AreaHandler serves the area reference data.
type AreaHandler struct {
	areas AreaLister
}

func NewAreaHandler(areas AreaLister) *AreaHandler {
	return &AreaHandler{areas: areas}
}

// List handles GET /v1/areas.
//
// @Summary      List areas
// @Tags         areas
// @Produce      json
// @Success      200  {array}   domain.Area
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/areas [get]
func (h *AreaHandler) List(c echo.Context) error {
	areas, err := h.areas.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, areas)
}
