package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/employee_records/internal/domain"
)

func employee(id, dept string, salary float64, joined time.Time, skills ...string) *domain.Employee {
	if skills == nil {
		skills = []string{}
	}
	return &domain.Employee{
		EmployeeID:  id,
		Name:        "Name " + id,
		Department:  dept,
		Salary:      salary,
		JoiningDate: joined,
		Skills:      skills,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMemoryEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryEmployeeRepository()
	require.NoError(t, repo.EnsureSchema(ctx))

	_, err := repo.Create(ctx, employee("E1", "Eng", 100, day(2021, 1, 1), "Go"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, employee("E1", "Ops", 1, day(2021, 1, 1)))
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	t.Run("returned records are copies", func(t *testing.T) {
		got, err := repo.Get(ctx, "E1")
		require.NoError(t, err)
		got.Skills[0] = "mutated"

		again, err := repo.Get(ctx, "E1")
		require.NoError(t, err)
		assert.Equal(t, []string{"Go"}, again.Skills)
	})

	t.Run("update applies only patched fields", func(t *testing.T) {
		updated, err := repo.Update(ctx, "E1", domain.EmployeePatch{domain.FieldDepartment: "Platform"})
		require.NoError(t, err)
		assert.Equal(t, "Platform", updated.Department)
		assert.Equal(t, 100.0, updated.Salary)

		_, err = repo.Update(ctx, "missing", domain.EmployeePatch{domain.FieldName: "X"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "E1"))
		assert.ErrorIs(t, repo.Delete(ctx, "E1"), domain.ErrNotFound)
	})
}

func TestPaginate(t *testing.T) {
	all := []domain.Employee{{EmployeeID: "a"}, {EmployeeID: "b"}, {EmployeeID: "c"}}

	assert.Len(t, paginate(all, 0, 2), 2)
	assert.Equal(t, "c", paginate(all, 2, 10)[0].EmployeeID)
	assert.NotNil(t, paginate(all, 3, 10))
	assert.Empty(t, paginate(all, 10, 10))
}

func TestAverageByDepartment(t *testing.T) {
	got := averageByDepartment([]domain.Employee{
		*employee("a", "Ops", 10, day(2020, 1, 1)),
		*employee("b", "Eng", 1, day(2020, 1, 1)),
		*employee("c", "Eng", 2, day(2020, 1, 1)),
	})
	assert.Equal(t, []domain.DepartmentSalary{
		{Department: "Eng", AvgSalary: 1.5},
		{Department: "Ops", AvgSalary: 10},
	}, got)
	assert.Empty(t, averageByDepartment(nil))
}

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	e := domain.Employee{JoiningDate: time.Date(2021, 1, 1, 7, 0, 0, 0, loc)}
	normalize(&e)

	assert.Equal(t, []string{}, e.Skills)
	assert.Equal(t, time.UTC, e.JoiningDate.Location())
	assert.True(t, e.JoiningDate.Equal(day(2021, 1, 1)))
}
