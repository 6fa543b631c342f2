package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/api/middleware"
	"github.com/fleetgate/reservation-api/internal/core/ports"
)

// ctxCaller rebuilds the caller identity injected by the Auth middleware.
// A missing role means the middleware never ran on this route; that is a
// wiring mistake, surfaced as 401 rather than a panic downstream.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	role, _ := c.Get(middleware.CtxRole).(string)
	if role == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	accountID, _ := c.Get(middleware.CtxAccountID).(string)
	username, _ := c.Get(middleware.CtxUsername).(string)
	tenantName, _ := c.Get(middleware.CtxTenantName).(string)

	return ports.Caller{
		AccountID:  accountID,
		Username:   username,
		Role:       role,
		TenantName: tenantName,
	}, nil
}
