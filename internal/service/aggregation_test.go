package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/locvowork/employee_records/internal/domain"
)

func TestRoundSalary(t *testing.T) {
	tests := map[float64]float64{
		150:       150,
		0.125:     0.12,
		0.135:     0.14,
		2.675:     2.68,
		33.333333: 33.33,
		66.666666: 66.67,
	}
	for in, want := range tests {
		assert.Equal(t, want, roundSalary(in), "round(%v)", in)
	}
}

func TestRoundAverages(t *testing.T) {
	got := roundAverages([]domain.DepartmentSalary{
		{Department: "Ops", AvgSalary: 50},
		{Department: "Eng", AvgSalary: 150.005},
	})
	assert.Equal(t, []domain.DepartmentSalary{
		{Department: "Eng", AvgSalary: 150},
		{Department: "Ops", AvgSalary: 50},
	}, got)
}
