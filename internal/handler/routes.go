package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_records/internal/auth"
)

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Employee *EmployeeHandler
	Export   *ExportHandler
	Auth     *AuthHandler
	Gate     *auth.Gate
}

// RegisterRoutes mounts the public API. Mutating employee routes require a
// bearer token.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	requireAuth := auth.RequireAuth(h.Gate)

	e.GET("/health", h.Employee.HealthHandler)
	e.POST("/token", h.Auth.TokenHandler)

	employees := e.Group("/employees")
	employees.POST("", h.Employee.CreateHandler, requireAuth)
	employees.GET("", h.Employee.ListHandler)
	employees.GET("/avg-salary", h.Employee.AverageSalaryHandler)
	employees.GET("/search", h.Employee.SearchHandler)
	employees.GET("/export", h.Export.ExportHandler)
	employees.GET("/:id", h.Employee.GetHandler)
	employees.PUT("/:id", h.Employee.UpdateHandler, requireAuth)
	employees.DELETE("/:id", h.Employee.DeleteHandler, requireAuth)
}
