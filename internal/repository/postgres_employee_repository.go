package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/repository/builder"
)

const (
	employeeTable = "employees"
	// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
	uniqueViolation = "23505"
)

var employeeColumns = []string{
	domain.FieldEmployeeID,
	domain.FieldName,
	domain.FieldDepartment,
	domain.FieldSalary,
	domain.FieldJoiningDate,
	domain.FieldSkills,
}

var employeeSchema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id           BIGSERIAL PRIMARY KEY,
		employee_id  TEXT NOT NULL,
		name         TEXT NOT NULL,
		department   TEXT NOT NULL,
		salary       DOUBLE PRECISION NOT NULL,
		joining_date TIMESTAMPTZ NOT NULL,
		skills       TEXT[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_employee_id ON employees (employee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_department_joining_date ON employees (department, joining_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_skills ON employees USING GIN (skills)`,
}

type postgresEmployeeRepository struct {
	db *sql.DB
}

// NewPostgresEmployeeRepository creates a store backed by a PostgreSQL table.
func NewPostgresEmployeeRepository(db *sql.DB) domain.EmployeeStore {
	return &postgresEmployeeRepository{db: db}
}

func (r *postgresEmployeeRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range employeeSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply employee schema: %w", err)
		}
	}
	return nil
}

func (r *postgresEmployeeRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *postgresEmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	query, args := insertEmployeeQuery(e)
	row := r.db.QueryRowContext(ctx, query, args...)
	out, err := scanEmployee(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create employee %s: %w", e.EmployeeID, err)
	}
	return out, nil
}

func (r *postgresEmployeeRepository) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Select(employeeColumns...).
		From(employeeTable).
		Where("employee_id = ?", employeeID).
		Build()

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}
	return e, nil
}

func (r *postgresEmployeeRepository) Update(ctx context.Context, employeeID string, patch domain.EmployeePatch) (*domain.Employee, error) {
	query, args := updateEmployeeQuery(employeeID, patch)
	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update employee %s: %w", employeeID, err)
	}
	return e, nil
}

func (r *postgresEmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	query, args := builder.NewSQLBuilder().
		Delete(employeeTable).
		Where("employee_id = ?", employeeID).
		Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", employeeID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresEmployeeRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Employee, error) {
	query, args := listEmployeesQuery(q)
	return r.query(ctx, query, args...)
}

func (r *postgresEmployeeRepository) SearchBySkill(ctx context.Context, skill string) ([]domain.Employee, error) {
	query, args := builder.NewSQLBuilder().
		Select(employeeColumns...).
		From(employeeTable).
		Where("? = ANY(skills)", skill).
		OrderBy("joining_date DESC", "employee_id ASC").
		Build()
	return r.query(ctx, query, args...)
}

func (r *postgresEmployeeRepository) AverageSalaryByDepartment(ctx context.Context) ([]domain.DepartmentSalary, error) {
	query, args := builder.NewSQLBuilder().
		Select("department", "AVG(salary)").
		From(employeeTable).
		GroupBy("department").
		OrderBy("department ASC").
		Build()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate salaries: %w", err)
	}
	defer rows.Close()

	out := []domain.DepartmentSalary{}
	for rows.Next() {
		var ds domain.DepartmentSalary
		if err := rows.Scan(&ds.Department, &ds.AvgSalary); err != nil {
			return nil, fmt.Errorf("failed to scan salary aggregation: %w", err)
		}
		out = append(out, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return out, nil
}

func (r *postgresEmployeeRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []domain.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return employees, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	var skills pq.StringArray
	if err := row.Scan(&e.EmployeeID, &e.Name, &e.Department, &e.Salary, &e.JoiningDate, &skills); err != nil {
		return nil, err
	}
	e.Skills = []string(skills)
	normalize(&e)
	return &e, nil
}

func insertEmployeeQuery(e *domain.Employee) (string, []interface{}) {
	return builder.NewSQLBuilder().
		Insert(employeeTable, employeeColumns...).
		Values(e.EmployeeID, e.Name, e.Department, e.Salary, e.JoiningDate, pq.Array(e.Skills)).
		Returning(employeeColumns...).
		Build()
}

func updateEmployeeQuery(employeeID string, patch domain.EmployeePatch) (string, []interface{}) {
	b := builder.NewSQLBuilder().Update(employeeTable)
	for _, field := range patch.Fields() {
		val := patch[field]
		if skills, ok := val.([]string); ok {
			val = pq.Array(skills)
		}
		b.Set(field, val)
	}
	return b.Where("employee_id = ?", employeeID).
		Returning(employeeColumns...).
		Build()
}

func listEmployeesQuery(q domain.ListQuery) (string, []interface{}) {
	b := builder.NewSQLBuilder().
		Select(employeeColumns...).
		From(employeeTable)
	if q.Department != "" {
		b.Where("department = ?", q.Department)
	}
	return b.OrderBy("joining_date DESC", "employee_id ASC").
		Limit(q.Limit).
		Offset(q.Skip).
		Build()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
