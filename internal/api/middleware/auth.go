package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fleetgate/reservation-api/internal/core/ports"
	"github.com/fleetgate/reservation-api/internal/infrastructure/token"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxAccountID  = "account_id"
	CtxUsername   = "username"
	CtxRole       = "role"
	CtxTenantName = "tenant_name"
)

// Auth validates the bearer token and resolves the account it names. The
// account lookup means a token outlives its account by zero requests: a
// deleted account gets 401 even with a syntactically valid token.
func Auth(tokens *token.Manager, accounts ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			account, err := accounts.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxAccountID, account.ID)
			c.Set(CtxUsername, account.Username)
			c.Set(CtxRole, account.Role)
			c.Set(CtxTenantName, account.TenantName)

			return next(c)
		}
	}
}
