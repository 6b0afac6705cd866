package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/service/serviceutils"
)

// SubjectKey is the echo context key holding the verified token subject.
const SubjectKey = "auth_subject"

// RequireAuth rejects requests without a valid bearer token. It lets
// everything through when the gate is disabled.
func RequireAuth(g *Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !g.Enabled() {
				return next(c)
			}

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "Not authenticated", nil)
			}
			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			}

			claims, err := g.Verify(strings.TrimSpace(token))
			if err != nil {
				return serviceutils.ResponseError(c, http.StatusUnauthorized, "Invalid token", err)
			}

			c.Set(SubjectKey, claims.Subject)
			ctx := logger.WithLogger(c.Request().Context(), map[string]interface{}{"subject": claims.Subject})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
