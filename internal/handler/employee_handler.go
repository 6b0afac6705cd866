package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/locvowork/employee_records/internal/service/serviceutils"
)

type EmployeeHandler struct {
	svc service.EmployeeService
}

func NewEmployeeHandler(svc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// DeleteResponse is the body of a successful delete.
type DeleteResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *EmployeeHandler) CreateHandler(c echo.Context) error {
	var req domain.EmployeeInput
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	emp, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusCreated, "Employee created successfully", emp)
}

func (h *EmployeeHandler) GetHandler(c echo.Context) error {
	emp, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee retrieved successfully", emp)
}

func (h *EmployeeHandler) UpdateHandler(c echo.Context) error {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil || body == nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	emp, err := h.svc.Update(c.Request().Context(), c.Param("id"), body)
	if err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee updated successfully", emp)
}

func (h *EmployeeHandler) DeleteHandler(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employee deleted successfully", DeleteResponse{
		Status:  "success",
		Message: fmt.Sprintf("Employee %s deleted", id),
	})
}

func (h *EmployeeHandler) ListHandler(c echo.Context) error {
	params := service.ListParams{Department: c.QueryParam("department")}
	var err error
	if params.Skip, err = intQueryParam(c, "skip"); err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}
	if params.Page, err = intQueryParam(c, "page"); err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}
	if params.Limit, err = intQueryParam(c, "limit"); err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	employees, err := h.svc.List(c.Request().Context(), params)
	if err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees listed successfully", employees)
}

func (h *EmployeeHandler) AverageSalaryHandler(c echo.Context) error {
	rows, err := h.svc.AverageSalaryByDepartment(c.Request().Context())
	if err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Average salaries computed", rows)
}

func (h *EmployeeHandler) SearchHandler(c echo.Context) error {
	employees, err := h.svc.SearchBySkill(c.Request().Context(), c.QueryParam("skill"))
	if err != nil {
		return serviceutils.ResponseServiceError(c, err)
	}

	return serviceutils.ResponseSuccess(c, http.StatusOK, "Employees searched successfully", employees)
}

func (h *EmployeeHandler) HealthHandler(c echo.Context) error {
	if err := h.svc.Health(c.Request().Context()); err != nil {
		return serviceutils.ResponseError(c, http.StatusServiceUnavailable, "Store unavailable", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Store is healthy", map[string]string{"status": "ok"})
}

// intQueryParam returns nil when the parameter is absent.
func intQueryParam(c echo.Context, name string) (*int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.InvalidInputf("%s must be an integer", name)
	}
	return &v, nil
}
