package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/core/domain"
	"github.com/fleetgate/reservation-api/internal/infrastructure/token"
)

type stubAccounts struct {
	byID map[string]*domain.Account
}

func (s *stubAccounts) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	return a, nil
}

func (s *stubAccounts) FindByID(_ context.Context, id string) (*domain.Account, error) {
	if a, ok := s.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccounts) FindByEmail(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccounts) FindByUsername(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (s *stubAccounts) List(context.Context) ([]*domain.Account, error) { return nil, nil }

func (s *stubAccounts) ListByRole(context.Context, string) ([]*domain.Account, error) {
	return nil, nil
}

func (s *stubAccounts) UpdatePassword(context.Context, string, string) error { return nil }

func (s *stubAccounts) DeleteByEmail(context.Context, string) error { return nil }

func authFixture() (*token.Manager, *stubAccounts, echo.MiddlewareFunc) {
	manager := token.NewManager("test-secret", "reservation-api", "reservation-clients", time.Hour)
	accounts := &stubAccounts{byID: map[string]*domain.Account{
		"acc_1": {ID: "acc_1", Username: "carlos", Role: domain.RoleUser, TenantName: "acme"},
	}}
	return manager, accounts, Auth(manager, accounts)
}

func invoke(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, c, err
}

func TestAuthValidToken(t *testing.T) {
	manager, accounts, mw := authFixture()

	tok, err := manager.Issue(accounts.byID["acc_1"])
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, c, err := invoke(mw, "Bearer "+tok)
	if err != nil {
		t.Fatalf("middleware rejected a valid token: %v", err)
	}
	if got := c.Get(CtxAccountID); got != "acc_1" {
		t.Errorf("account_id = %v", got)
	}
	if got := c.Get(CtxUsername); got != "carlos" {
		t.Errorf("username = %v", got)
	}
	if got := c.Get(CtxRole); got != domain.RoleUser {
		t.Errorf("role = %v", got)
	}
	if got := c.Get(CtxTenantName); got != "acme" {
		t.Errorf("tenant_name = %v", got)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	_, _, mw := authFixture()

	_, _, err := invoke(mw, "")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthMalformedHeader(t *testing.T) {
	manager, accounts, mw := authFixture()

	tok, err := manager.Issue(accounts.byID["acc_1"])
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for _, header := range []string{"Basic abc", tok, "Bearer"} {
		_, _, err := invoke(mw, header)
		assertHTTPError(t, err, http.StatusUnauthorized)
	}
}

func TestAuthGarbageToken(t *testing.T) {
	_, _, mw := authFixture()

	_, _, err := invoke(mw, "Bearer not.a.token")
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuthDeletedAccount(t *testing.T) {
	manager, _, mw := authFixture()

	ghost := &domain.Account{ID: "acc_gone", Username: "ghost", Role: domain.RoleUser}
	tok, err := manager.Issue(ghost)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, _, err = invoke(mw, "Bearer "+tok)
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func assertHTTPError(t *testing.T, err error, wantCode int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != wantCode {
		t.Errorf("status = %d, want %d", he.Code, wantCode)
	}
}
