package domain

import "context"

// EmployeeStore defines the record store adapter contract. Implementations
// enforce employee_id uniqueness in the backing store and translate backend
// signals into ErrDuplicateKey and ErrNotFound.
type EmployeeStore interface {
	// EnsureSchema establishes the uniqueness constraint on employee_id.
	// Calling it repeatedly is safe.
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, e *Employee) (*Employee, error)
	Get(ctx context.Context, employeeID string) (*Employee, error)
	Update(ctx context.Context, employeeID string, patch EmployeePatch) (*Employee, error)
	Delete(ctx context.Context, employeeID string) error
	List(ctx context.Context, q ListQuery) ([]Employee, error)
	SearchBySkill(ctx context.Context, skill string) ([]Employee, error)
	// AverageSalaryByDepartment returns unrounded means, in any order.
	AverageSalaryByDepartment(ctx context.Context) ([]DepartmentSalary, error)
	Ping(ctx context.Context) error
}

// EventPublisher publishes committed employee changes.
type EventPublisher interface {
	Publish(ctx context.Context, event EmployeeEvent) error
}

// EmployeeWalker is implemented by stores that can visit every record of a
// department (all when empty) in list order without offset paging.
type EmployeeWalker interface {
	Walk(ctx context.Context, department string, fn func(Employee) error) error
}
