package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/komunidad/bulletin-board/internal/core/domain"
	"github.com/komunidad/bulletin-board/internal/core/guard"
)

type stubProfiles map[string]*domain.UserProfile

func (s stubProfiles) Get(_ context.Context, uid string) (*domain.UserProfile, error) {
	p, ok := s[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s stubProfiles) Create(context.Context, *domain.UserProfile) error { return nil }

var profiles = stubProfiles{
	"off": {UID: "off", Role: domain.RoleOfficial, AreaID: "b1"},
	"res": {UID: "res", Role: domain.RoleResident, AreaID: "b1"},
}

func runGuard(t *testing.T, uid string, role domain.Role) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set(CtxUID, uid)
	}

	called := false
	handler := RequireRole(profiles, role)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return c, called, err
}

func TestRequireRole_Allows(t *testing.T) {
	c, called, err := runGuard(t, "off", domain.RoleOfficial)
	if err != nil || !called {
		t.Fatalf("expected official through, got called=%v err=%v", called, err)
	}
	p, _ := c.Get(CtxProfile).(*domain.UserProfile)
	if p == nil || p.UID != "off" {
		t.Fatalf("profile not stored in context: %+v", p)
	}
}

func TestRequireRole_ResidentRedirectedHome(t *testing.T) {
	_, called, err := runGuard(t, "res", domain.RoleOfficial)
	if called {
		t.Fatalf("resident must not reach official handler")
	}
	var denied *guard.DeniedError
	if !errors.As(err, &denied) || denied.Redirect != guard.RouteHome {
		t.Fatalf("expected redirect to %s, got %v", guard.RouteHome, err)
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireRole_NoSessionOrProfile(t *testing.T) {
	for _, uid := range []string{"", "ghost"} {
		_, called, err := runGuard(t, uid, domain.RoleOfficial)
		if called {
			t.Fatalf("uid %q: should not reach next handler", uid)
		}
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("uid %q: expected ErrUnauthenticated, got %v", uid, err)
		}
	}
}
