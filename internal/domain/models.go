package domain

import (
	"sort"
	"time"
)

// Employee field names. They double as JSON keys, BSON keys, Datastore
// property names and SQL column names.
const (
	FieldEmployeeID  = "employee_id"
	FieldName        = "name"
	FieldDepartment  = "department"
	FieldSalary      = "salary"
	FieldJoiningDate = "joining_date"
	FieldSkills      = "skills"
)

// PatchableFields lists the fields a partial update may touch, in public order.
var PatchableFields = []string{FieldName, FieldDepartment, FieldSalary, FieldJoiningDate, FieldSkills}

// Employee is the public shape of an employee record.
type Employee struct {
	EmployeeID  string    `json:"employee_id" bson:"employee_id" datastore:"employee_id"`
	Name        string    `json:"name" bson:"name" datastore:"name"`
	Department  string    `json:"department" bson:"department" datastore:"department"`
	Salary      float64   `json:"salary" bson:"salary" datastore:"salary"`
	JoiningDate time.Time `json:"joining_date" bson:"joining_date" datastore:"joining_date"`
	Skills      []string  `json:"skills" bson:"skills" datastore:"skills"`
}

// Clone returns a copy that shares no memory with e.
func (e Employee) Clone() Employee {
	out := e
	out.Skills = append(make([]string, 0, len(e.Skills)), e.Skills...)
	return out
}

// EmployeeInput is the create payload. Pointer fields distinguish a missing
// field from its zero value.
type EmployeeInput struct {
	EmployeeID  *string   `json:"employee_id" validate:"required"`
	Name        *string   `json:"name" validate:"required"`
	Department  *string   `json:"department" validate:"required"`
	Salary      *float64  `json:"salary" validate:"required"`
	JoiningDate *string   `json:"joining_date" validate:"required"`
	Skills      *[]string `json:"skills" validate:"required"`
}

// EmployeePatch holds only the fields a caller explicitly set on update.
// Values are typed: string for name and department, float64 for salary,
// time.Time for joining_date and []string for skills.
type EmployeePatch map[string]interface{}

// Fields returns the patch keys in public field order.
func (p EmployeePatch) Fields() []string {
	fields := make([]string, 0, len(p))
	for _, f := range PatchableFields {
		if _, ok := p[f]; ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Apply merges the patch into e. Unknown keys are ignored.
func (p EmployeePatch) Apply(e *Employee) {
	for field, val := range p {
		switch field {
		case FieldName:
			e.Name = val.(string)
		case FieldDepartment:
			e.Department = val.(string)
		case FieldSalary:
			e.Salary = val.(float64)
		case FieldJoiningDate:
			e.JoiningDate = val.(time.Time)
		case FieldSkills:
			e.Skills = append([]string(nil), val.([]string)...)
		}
	}
}

// ListQuery is the canonical offset/limit listing contract.
type ListQuery struct {
	Department string
	Skip       int
	Limit      int
}

// DepartmentSalary is one row of the average salary aggregation.
type DepartmentSalary struct {
	Department string  `json:"department" bson:"department"`
	AvgSalary  float64 `json:"avg_salary" bson:"avg_salary"`
}

// SortEmployees orders records by joining_date descending, then employee_id
// ascending.
func SortEmployees(employees []Employee) {
	sort.SliceStable(employees, func(i, j int) bool {
		a, b := employees[i], employees[j]
		if !a.JoiningDate.Equal(b.JoiningDate) {
			return a.JoiningDate.After(b.JoiningDate)
		}
		return a.EmployeeID < b.EmployeeID
	})
}

// EventType identifies an employee lifecycle event.
type EventType string

const (
	EventEmployeeCreated EventType = "employee.created"
	EventEmployeeUpdated EventType = "employee.updated"
	EventEmployeeDeleted EventType = "employee.deleted"
)

// EmployeeEvent is published after a mutation has been committed.
type EmployeeEvent struct {
	Type          EventType `json:"type"`
	EmployeeID    string    `json:"employee_id"`
	Employee      *Employee `json:"employee,omitempty"`
	UpdatedFields []string  `json:"updated_fields,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
