package repository

import (
	"context"
	"sync"

	"github.com/locvowork/employee_records/internal/domain"
)

// MemoryEmployeeRepository keeps records in process memory. The mutex plays
// the role of the store's uniqueness constraint.
type MemoryEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]domain.Employee
}

// NewMemoryEmployeeRepository creates an empty in-memory store.
func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{employees: make(map[string]domain.Employee)}
}

func (r *MemoryEmployeeRepository) EnsureSchema(ctx context.Context) error {
	return nil
}

func (r *MemoryEmployeeRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryEmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.employees[e.EmployeeID]; exists {
		return nil, domain.ErrDuplicateKey
	}
	r.employees[e.EmployeeID] = e.Clone()

	out := e.Clone()
	return &out, nil
}

func (r *MemoryEmployeeRepository) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[employeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := e.Clone()
	return &out, nil
}

func (r *MemoryEmployeeRepository) Update(ctx context.Context, employeeID string, patch domain.EmployeePatch) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[employeeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e = e.Clone()
	patch.Apply(&e)
	r.employees[employeeID] = e

	out := e.Clone()
	return &out, nil
}

func (r *MemoryEmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[employeeID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.employees, employeeID)
	return nil
}

func (r *MemoryEmployeeRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Employee, error) {
	all := r.filter(func(e domain.Employee) bool {
		return q.Department == "" || e.Department == q.Department
	})
	return paginate(all, q.Skip, q.Limit), nil
}

func (r *MemoryEmployeeRepository) SearchBySkill(ctx context.Context, skill string) ([]domain.Employee, error) {
	return r.filter(func(e domain.Employee) bool {
		return hasSkill(e.Skills, skill)
	}), nil
}

func (r *MemoryEmployeeRepository) AverageSalaryByDepartment(ctx context.Context) ([]domain.DepartmentSalary, error) {
	return averageByDepartment(r.filter(func(domain.Employee) bool { return true })), nil
}

// filter returns sorted copies of the records matching keep.
func (r *MemoryEmployeeRepository) filter(keep func(domain.Employee) bool) []domain.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		if keep(e) {
			out = append(out, e.Clone())
		}
	}
	domain.SortEmployees(out)
	return out
}
