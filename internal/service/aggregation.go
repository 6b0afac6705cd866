package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/locvowork/employee_records/internal/domain"
)

// roundSalary rounds half to even at two decimals, on the shortest decimal
// form of f, so 0.125 becomes 0.12 and 0.135 becomes 0.14.
func roundSalary(f float64) float64 {
	return decimal.NewFromFloat(f).RoundBank(2).InexactFloat64()
}

// roundAverages rounds every mean and orders the rows by department.
func roundAverages(rows []domain.DepartmentSalary) []domain.DepartmentSalary {
	out := make([]domain.DepartmentSalary, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.DepartmentSalary{Department: r.Department, AvgSalary: roundSalary(r.AvgSalary)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
