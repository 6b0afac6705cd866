package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/locvowork/employee_records/internal/domain"
)

var validate = validator.New()

const dateOnly = "2006-01-02"

// NormalizeCreate validates a create payload and turns it into a record.
// String values are kept as given; joining_date is normalized to UTC.
func NormalizeCreate(in domain.EmployeeInput) (*domain.Employee, error) {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, domain.InvalidInputf("field %s is required", jsonFieldName(verrs[0].Field()))
		}
		return nil, domain.InvalidInputf("%v", err)
	}

	e := &domain.Employee{}
	var err error
	if e.EmployeeID, err = nonBlank(domain.FieldEmployeeID, *in.EmployeeID); err != nil {
		return nil, err
	}
	if e.Name, err = nonBlank(domain.FieldName, *in.Name); err != nil {
		return nil, err
	}
	if e.Department, err = nonBlank(domain.FieldDepartment, *in.Department); err != nil {
		return nil, err
	}
	if e.Salary, err = checkSalary(*in.Salary); err != nil {
		return nil, err
	}
	if e.JoiningDate, err = ParseJoiningDate(*in.JoiningDate); err != nil {
		return nil, err
	}
	e.Skills = append(make([]string, 0, len(*in.Skills)), *in.Skills...)
	return e, nil
}

// ParseEmployeePatch builds a patch from a decoded JSON object. Only known
// keys become patch fields; employee_id and unknown keys are ignored.
func ParseEmployeePatch(body map[string]json.RawMessage) (domain.EmployeePatch, error) {
	patch := domain.EmployeePatch{}
	for _, field := range domain.PatchableFields {
		raw, ok := body[field]
		if !ok {
			continue
		}
		if isNull(raw) {
			return nil, domain.InvalidInputf("field %s cannot be null", field)
		}
		val, err := parsePatchValue(field, raw)
		if err != nil {
			return nil, err
		}
		patch[field] = val
	}
	if len(patch) == 0 {
		return nil, domain.ErrNoFieldsProvided
	}
	return patch, nil
}

func parsePatchValue(field string, raw json.RawMessage) (interface{}, error) {
	switch field {
	case domain.FieldName, domain.FieldDepartment:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, domain.InvalidInputf("field %s must be a string", field)
		}
		return nonBlank(field, s)
	case domain.FieldSalary:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, domain.InvalidInputf("field %s must be a number", field)
		}
		return checkSalary(f)
	case domain.FieldJoiningDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, domain.InvalidInputf("field %s must be a date string", field)
		}
		return ParseJoiningDate(s)
	case domain.FieldSkills:
		var skills []string
		if err := json.Unmarshal(raw, &skills); err != nil {
			return nil, domain.InvalidInputf("field %s must be an array of strings", field)
		}
		if skills == nil {
			skills = []string{}
		}
		return skills, nil
	}
	return nil, domain.InvalidInputf("unknown field %s", field)
}

// ParseJoiningDate accepts RFC 3339 timestamps and plain dates (UTC
// midnight). The result is UTC, truncated to milliseconds so every backend
// round-trips it unchanged.
func ParseJoiningDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(dateOnly, s)
	}
	if err != nil {
		return time.Time{}, domain.InvalidInputf("field %s must be an RFC 3339 timestamp or YYYY-MM-DD date", domain.FieldJoiningDate)
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

func nonBlank(field, s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", domain.InvalidInputf("field %s must not be blank", field)
	}
	return s, nil
}

func checkSalary(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domain.InvalidInputf("field %s must be a finite number", domain.FieldSalary)
	}
	if f < 0 {
		return 0, domain.InvalidInputf("field %s must not be negative", domain.FieldSalary)
	}
	return f, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

var inputFieldNames = map[string]string{
	"EmployeeID":  domain.FieldEmployeeID,
	"Name":        domain.FieldName,
	"Department":  domain.FieldDepartment,
	"Salary":      domain.FieldSalary,
	"JoiningDate": domain.FieldJoiningDate,
	"Skills":      domain.FieldSkills,
}

func jsonFieldName(structField string) string {
	if name, ok := inputFieldNames[structField]; ok {
		return name
	}
	return structField
}
