package service

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_records/internal/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func validInput() domain.EmployeeInput {
	return domain.EmployeeInput{
		EmployeeID:  ptr("E1"),
		Name:        ptr("Alice"),
		Department:  ptr("Eng"),
		Salary:      ptr(100.0),
		JoiningDate: ptr("2021-03-01"),
		Skills:      ptr([]string{"Go", "SQL"}),
	}
}

func TestNormalizeCreate(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		e, err := NormalizeCreate(validInput())
		require.NoError(t, err)
		assert.Equal(t, &domain.Employee{
			EmployeeID:  "E1",
			Name:        "Alice",
			Department:  "Eng",
			Salary:      100,
			JoiningDate: time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC),
			Skills:      []string{"Go", "SQL"},
		}, e)
	})

	t.Run("zero salary and empty skills are allowed", func(t *testing.T) {
		in := validInput()
		in.Salary = ptr(0.0)
		in.Skills = ptr([]string{})
		e, err := NormalizeCreate(in)
		require.NoError(t, err)
		assert.Zero(t, e.Salary)
		assert.Equal(t, []string{}, e.Skills)
	})

	t.Run("strings are kept as given", func(t *testing.T) {
		in := validInput()
		in.Name = ptr("  Alice ")
		e, err := NormalizeCreate(in)
		require.NoError(t, err)
		assert.Equal(t, "  Alice ", e.Name)
	})

	invalid := map[string]func(in *domain.EmployeeInput){
		"missing employee_id": func(in *domain.EmployeeInput) { in.EmployeeID = nil },
		"missing skills":      func(in *domain.EmployeeInput) { in.Skills = nil },
		"missing salary":      func(in *domain.EmployeeInput) { in.Salary = nil },
		"blank name":          func(in *domain.EmployeeInput) { in.Name = ptr("   ") },
		"empty department":    func(in *domain.EmployeeInput) { in.Department = ptr("") },
		"negative salary":     func(in *domain.EmployeeInput) { in.Salary = ptr(-1.0) },
		"infinite salary":     func(in *domain.EmployeeInput) { in.Salary = ptr(math.Inf(1)) },
		"bad date":            func(in *domain.EmployeeInput) { in.JoiningDate = ptr("03/01/2021") },
	}
	for name, mutate := range invalid {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := NormalizeCreate(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	t.Run("missing field is named", func(t *testing.T) {
		in := validInput()
		in.JoiningDate = nil
		_, err := NormalizeCreate(in)
		assert.ErrorContains(t, err, "joining_date")
	})
}

func TestParseJoiningDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2021-03-01", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2021-03-01T10:30:00Z", time.Date(2021, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2021-03-01T10:30:00+07:00", time.Date(2021, 3, 1, 3, 30, 0, 0, time.UTC)},
		{"2021-03-01T10:30:00.123456789Z", time.Date(2021, 3, 1, 10, 30, 0, 123000000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJoiningDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}

	_, err := ParseJoiningDate("yesterday")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func decodeBody(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &m))
	return m
}

func TestParseEmployeePatch(t *testing.T) {
	t.Run("only present fields", func(t *testing.T) {
		patch, err := ParseEmployeePatch(decodeBody(t, `{"salary": 5000}`))
		require.NoError(t, err)
		assert.Equal(t, domain.EmployeePatch{domain.FieldSalary: 5000.0}, patch)
	})

	t.Run("typed values", func(t *testing.T) {
		patch, err := ParseEmployeePatch(decodeBody(t,
			`{"name":"Bob","department":"Ops","joining_date":"2022-01-02","skills":["Rust"]}`))
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "department", "joining_date", "skills"}, patch.Fields())
		assert.Equal(t, time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC), patch[domain.FieldJoiningDate])
		assert.Equal(t, []string{"Rust"}, patch[domain.FieldSkills])
	})

	t.Run("employee_id and unknown keys are ignored", func(t *testing.T) {
		patch, err := ParseEmployeePatch(decodeBody(t, `{"employee_id":"E2","nickname":"x","name":"Bob"}`))
		require.NoError(t, err)
		assert.Equal(t, domain.EmployeePatch{domain.FieldName: "Bob"}, patch)
	})

	t.Run("empty patch", func(t *testing.T) {
		_, err := ParseEmployeePatch(decodeBody(t, `{}`))
		assert.ErrorIs(t, err, domain.ErrNoFieldsProvided)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("only ignored keys", func(t *testing.T) {
		_, err := ParseEmployeePatch(decodeBody(t, `{"employee_id":"E2"}`))
		assert.ErrorIs(t, err, domain.ErrNoFieldsProvided)
	})

	invalid := map[string]string{
		"null name":        `{"name": null}`,
		"numeric name":     `{"name": 5}`,
		"blank department": `{"department": " "}`,
		"string salary":    `{"salary": "lots"}`,
		"negative salary":  `{"salary": -3}`,
		"bad date":         `{"joining_date": "soon"}`,
		"skills not array": `{"skills": "Go"}`,
		"mixed skills":     `{"skills": ["Go", 1]}`,
	}
	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ParseEmployeePatch(decodeBody(t, body))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
