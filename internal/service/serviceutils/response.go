package serviceutils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ResponseSuccess writes data as the JSON body.
func ResponseSuccess(c echo.Context, status int, message string, data interface{}) error {
	logger.DebugLog(c.Request().Context(), "%s", message)
	return c.JSON(status, data)
}

// ResponseError writes {"detail": message} and logs err. Server errors are
// logged at error level, client errors at warn.
func ResponseError(c echo.Context, status int, message string, err error) error {
	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		logger.ErrorLog(ctx, "%s: %v", message, err)
	} else if err != nil {
		logger.WarnLog(ctx, "%s: %v", message, err)
	}
	return c.JSON(status, ErrorResponse{Detail: message})
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ResponseServiceError classifies err and writes the matching error body.
// Messages of unclassified errors are not sent to the client.
func ResponseServiceError(c echo.Context, err error) error {
	status := StatusFor(err)
	message := err.Error()
	switch status {
	case http.StatusNotFound:
		message = "Employee not found"
	case http.StatusUnauthorized:
		message = "Invalid token"
	case http.StatusInternalServerError:
		message = "Internal server error"
	}
	return ResponseError(c, status, message, err)
}

// HTTPErrorHandler renders router level errors (unknown route, wrong
// method, bad bind) in the {"detail"} shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = ResponseServiceError(c, err)
		return
	}
	message := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		message = m
	} else if he.Message != nil {
		message = fmt.Sprint(he.Message)
	}
	_ = ResponseError(c, he.Code, message, he.Internal)
}
