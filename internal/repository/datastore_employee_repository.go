package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/datastore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/locvowork/employee_records/internal/domain"
)

// datastoreEmployeeRepository keys entities by employee_id, so uniqueness
// comes from the key itself.
type datastoreEmployeeRepository struct {
	client *datastore.Client
	kind   string
}

// NewDatastoreEmployeeRepository creates a store backed by a Cloud Datastore kind.
func NewDatastoreEmployeeRepository(client *datastore.Client, kind string) domain.EmployeeStore {
	return &datastoreEmployeeRepository{client: client, kind: kind}
}

func (r *datastoreEmployeeRepository) key(employeeID string) *datastore.Key {
	return datastore.NameKey(r.kind, employeeID, nil)
}

// EnsureSchema has nothing to create: the name key is the uniqueness constraint.
func (r *datastoreEmployeeRepository) EnsureSchema(ctx context.Context) error {
	return nil
}

func (r *datastoreEmployeeRepository) Ping(ctx context.Context) error {
	_, err := r.client.GetAll(ctx, datastore.NewQuery(r.kind).KeysOnly().Limit(1), nil)
	return err
}

func (r *datastoreEmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	doc := e.Clone()
	if _, err := r.client.Mutate(ctx, datastore.NewInsert(r.key(e.EmployeeID), &doc)); err != nil {
		if isAlreadyExists(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert employee %s: %w", e.EmployeeID, err)
	}
	normalize(&doc)
	return &doc, nil
}

func (r *datastoreEmployeeRepository) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	var e domain.Employee
	if err := r.client.Get(ctx, r.key(employeeID), &e); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}
	normalize(&e)
	return &e, nil
}

func (r *datastoreEmployeeRepository) Update(ctx context.Context, employeeID string, patch domain.EmployeePatch) (*domain.Employee, error) {
	key := r.key(employeeID)
	var e domain.Employee
	_, err := r.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		// reset between retries; list properties load by appending
		e = domain.Employee{}
		if err := tx.Get(key, &e); err != nil {
			return err
		}
		patch.Apply(&e)
		_, err := tx.Put(key, &e)
		return err
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update employee %s: %w", employeeID, err)
	}
	normalize(&e)
	return &e, nil
}

// Delete runs in a transaction because a plain delete of a missing key succeeds.
func (r *datastoreEmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	key := r.key(employeeID)
	_, err := r.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var e domain.Employee
		if err := tx.Get(key, &e); err != nil {
			return err
		}
		return tx.Delete(key)
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete employee %s: %w", employeeID, err)
	}
	return nil
}

func (r *datastoreEmployeeRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Employee, error) {
	return r.getAll(ctx, listDatastoreQuery(r.kind, q))
}

func (r *datastoreEmployeeRepository) SearchBySkill(ctx context.Context, skill string) ([]domain.Employee, error) {
	return r.getAll(ctx, skillDatastoreQuery(r.kind, skill))
}

// AverageSalaryByDepartment averages in process; Datastore has no group-by.
func (r *datastoreEmployeeRepository) AverageSalaryByDepartment(ctx context.Context) ([]domain.DepartmentSalary, error) {
	var rows []domain.Employee
	if _, err := r.client.GetAll(ctx, datastore.NewQuery(r.kind), &rows); err != nil {
		return nil, fmt.Errorf("failed to load salaries: %w", err)
	}
	return averageByDepartment(rows), nil
}

func (r *datastoreEmployeeRepository) getAll(ctx context.Context, q *datastore.Query) ([]domain.Employee, error) {
	employees := []domain.Employee{}
	if _, err := r.client.GetAll(ctx, q, &employees); err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	for i := range employees {
		normalize(&employees[i])
	}
	return employees, nil
}

func listDatastoreQuery(kind string, q domain.ListQuery) *datastore.Query {
	query := datastore.NewQuery(kind)
	if q.Department != "" {
		query = query.FilterField(domain.FieldDepartment, "=", q.Department)
	}
	query = query.
		Order("-" + domain.FieldJoiningDate).
		Order(domain.FieldEmployeeID)
	if q.Skip > 0 {
		query = query.Offset(q.Skip)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

// skillDatastoreQuery relies on equality against a list property matching
// any of its elements.
func skillDatastoreQuery(kind, skill string) *datastore.Query {
	return datastore.NewQuery(kind).
		FilterField(domain.FieldSkills, "=", skill).
		Order("-" + domain.FieldJoiningDate).
		Order(domain.FieldEmployeeID)
}

func isAlreadyExists(err error) bool {
	var multi datastore.MultiError
	if errors.As(err, &multi) {
		for _, e := range multi {
			if e != nil && status.Code(e) == codes.AlreadyExists {
				return true
			}
		}
		return false
	}
	return status.Code(err) == codes.AlreadyExists
}
