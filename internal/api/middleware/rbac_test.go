package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/core/domain"
)

func invokeRBAC(role string, allowed ...string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}

	handler := RBAC(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec
}

func TestRBACAllowsListedRole(t *testing.T) {
	rec := invokeRBAC(domain.RoleAdmin, domain.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRBACRejectsOtherRole(t *testing.T) {
	rec := invokeRBAC(domain.RoleUser, domain.RoleAdmin)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRBACRejectsMissingRole(t *testing.T) {
	rec := invokeRBAC("", domain.RoleAdmin)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
