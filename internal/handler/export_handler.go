package handler

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/locvowork/employee_records/internal/service/serviceutils"
	"github.com/locvowork/employee_records/pkg/simpleexcel"
)

//go:embed templates/employees.yaml
var defaultExportTemplate []byte

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc  service.EmployeeService
	tmpl *simpleexcel.SheetTemplate
}

// NewExportHandler loads the sheet template from templatePath, or the
// embedded default when the path is empty.
func NewExportHandler(svc service.EmployeeService, templatePath string) (*ExportHandler, error) {
	var tmpl *simpleexcel.SheetTemplate
	var err error
	if templatePath != "" {
		tmpl, err = simpleexcel.LoadTemplateFile(templatePath)
	} else {
		tmpl, err = simpleexcel.LoadTemplate(bytes.NewReader(defaultExportTemplate))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load export template: %w", err)
	}
	return &ExportHandler{svc: svc, tmpl: tmpl}, nil
}

// ExportHandler streams every record, optionally of one department, as xlsx.
func (h *ExportHandler) ExportHandler(c echo.Context) error {
	ctx := c.Request().Context()
	department := c.QueryParam("department")

	exporter, err := simpleexcel.NewStreamExporter(h.tmpl)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to generate excel file", err)
	}

	rows := 0
	err = h.svc.Each(ctx, department, func(e domain.Employee) error {
		rows++
		return exporter.WriteRow(e)
	})
	if err != nil {
		exporter.Close()
		return serviceutils.ResponseServiceError(c, err)
	}
	logger.InfoLog(ctx, "exporting %d rows (department=%q)", rows, department)

	filename := fmt.Sprintf("employees_%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().WriteHeader(http.StatusOK)

	_, err = exporter.WriteTo(c.Response())
	return err
}
