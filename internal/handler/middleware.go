package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/locvowork/employee_records/internal/logger"
)

// RequestID assigns an X-Request-ID (a UUID unless the client sent one) and
// stores a request scoped logger in the request context.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, requestID string) {
			req := c.Request()
			ctx := logger.WithLogger(req.Context(), map[string]interface{}{
				"request_id": requestID,
				"method":     req.Method,
				"path":       req.URL.Path,
			})
			c.SetRequest(req.WithContext(ctx))
		},
	})
}

// AccessLog writes one zerolog line per request.
func AccessLog() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l := logger.FromContext(c.Request().Context())
			ev := l.Info()
			if v.Status >= 500 || v.Error != nil {
				ev = l.Error().Err(v.Error)
			}
			ev.Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request completed")
			return nil
		},
	})
}
