package repository

import (
	"sort"

	"github.com/locvowork/employee_records/internal/domain"
)

// averageByDepartment computes unrounded salary means for stores without a
// native group-by.
func averageByDepartment(employees []domain.Employee) []domain.DepartmentSalary {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, e := range employees {
		g, ok := groups[e.Department]
		if !ok {
			g = &acc{}
			groups[e.Department] = g
		}
		g.sum += e.Salary
		g.count++
	}

	out := make([]domain.DepartmentSalary, 0, len(groups))
	for dept, g := range groups {
		out = append(out, domain.DepartmentSalary{Department: dept, AvgSalary: g.sum / float64(g.count)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}

func paginate(employees []domain.Employee, skip, limit int) []domain.Employee {
	if skip >= len(employees) {
		return []domain.Employee{}
	}
	employees = employees[skip:]
	if limit > 0 && limit < len(employees) {
		employees = employees[:limit]
	}
	return employees
}

func hasSkill(skills []string, skill string) bool {
	for _, s := range skills {
		if s == skill {
			return true
		}
	}
	return false
}

// normalize makes decoded records match the public shape.
func normalize(e *domain.Employee) {
	if e.Skills == nil {
		e.Skills = []string{}
	}
	e.JoiningDate = e.JoiningDate.UTC()
}
