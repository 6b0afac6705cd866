package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
)

// EmployeeService is the validated entry point to the employee store.
type EmployeeService interface {
	Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	Get(ctx context.Context, employeeID string) (*domain.Employee, error)
	Update(ctx context.Context, employeeID string, body map[string]json.RawMessage) (*domain.Employee, error)
	Delete(ctx context.Context, employeeID string) error
	List(ctx context.Context, params ListParams) ([]domain.Employee, error)
	SearchBySkill(ctx context.Context, skill string) ([]domain.Employee, error)
	AverageSalaryByDepartment(ctx context.Context) ([]domain.DepartmentSalary, error)
	// Each walks every record of a department (all when empty) in list order.
	Each(ctx context.Context, department string, fn func(domain.Employee) error) error
	Health(ctx context.Context) error
}

type employeeService struct {
	store     domain.EmployeeStore
	publisher domain.EventPublisher
	now       func() time.Time
}

// NewEmployeeService creates the service. publisher may be nil.
func NewEmployeeService(store domain.EmployeeStore, publisher domain.EventPublisher) EmployeeService {
	return &employeeService{store: store, publisher: publisher, now: time.Now}
}

func (s *employeeService) Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	e, err := NormalizeCreate(in)
	if err != nil {
		return nil, err
	}
	created, err := s.store.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EmployeeEvent{
		Type:       domain.EventEmployeeCreated,
		EmployeeID: created.EmployeeID,
		Employee:   created,
	})
	return created, nil
}

func (s *employeeService) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.store.Get(ctx, employeeID)
}

func (s *employeeService) Update(ctx context.Context, employeeID string, body map[string]json.RawMessage) (*domain.Employee, error) {
	patch, err := ParseEmployeePatch(body)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, employeeID, patch)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EmployeeEvent{
		Type:          domain.EventEmployeeUpdated,
		EmployeeID:    employeeID,
		Employee:      updated,
		UpdatedFields: patch.Fields(),
	})
	return updated, nil
}

func (s *employeeService) Delete(ctx context.Context, employeeID string) error {
	if err := s.store.Delete(ctx, employeeID); err != nil {
		return err
	}
	s.publish(ctx, domain.EmployeeEvent{
		Type:       domain.EventEmployeeDeleted,
		EmployeeID: employeeID,
	})
	return nil
}

func (s *employeeService) List(ctx context.Context, params ListParams) ([]domain.Employee, error) {
	q, err := ResolveListQuery(params)
	if err != nil {
		return nil, err
	}
	return s.store.List(ctx, q)
}

func (s *employeeService) SearchBySkill(ctx context.Context, skill string) ([]domain.Employee, error) {
	if skill == "" {
		return nil, domain.InvalidInputf("skill is required")
	}
	return s.store.SearchBySkill(ctx, skill)
}

func (s *employeeService) AverageSalaryByDepartment(ctx context.Context) ([]domain.DepartmentSalary, error) {
	rows, err := s.store.AverageSalaryByDepartment(ctx)
	if err != nil {
		return nil, err
	}
	return roundAverages(rows), nil
}

func (s *employeeService) Each(ctx context.Context, department string, fn func(domain.Employee) error) error {
	if w, ok := s.store.(domain.EmployeeWalker); ok {
		return w.Walk(ctx, department, fn)
	}
	q := domain.ListQuery{Department: department, Limit: MaxLimit}
	for {
		page, err := s.store.List(ctx, q)
		if err != nil {
			return err
		}
		for _, e := range page {
			if err := fn(e); err != nil {
				return err
			}
		}
		if len(page) < q.Limit {
			return nil
		}
		q.Skip += len(page)
	}
}

func (s *employeeService) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish runs after the mutation is committed, so failures are only logged.
func (s *employeeService) publish(ctx context.Context, event domain.EmployeeEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.ErrorLog(ctx, "failed to publish %[2]s for employee %[3]s: %[1]v", err, event.Type, event.EmployeeID)
	}
}
