package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/locvowork/employee_records/internal/domain"
)

// EmployeeIndexes are created by EnsureSchema. CreateMany is a no-op for
// indexes that already exist with the same definition.
var EmployeeIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: domain.FieldEmployeeID, Value: 1}},
		Options: options.Index().SetName("uniq_employee_id").SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: domain.FieldDepartment, Value: 1}, {Key: domain.FieldJoiningDate, Value: -1}},
		Options: options.Index().SetName("idx_department_joining_date"),
	},
	{
		Keys:    bson.D{{Key: domain.FieldSkills, Value: 1}},
		Options: options.Index().SetName("idx_skills"),
	},
}

// employeeProjection keeps storage fields such as _id out of results.
var employeeProjection = bson.D{
	{Key: "_id", Value: 0},
	{Key: domain.FieldEmployeeID, Value: 1},
	{Key: domain.FieldName, Value: 1},
	{Key: domain.FieldDepartment, Value: 1},
	{Key: domain.FieldSalary, Value: 1},
	{Key: domain.FieldJoiningDate, Value: 1},
	{Key: domain.FieldSkills, Value: 1},
}

var employeeSort = bson.D{
	{Key: domain.FieldJoiningDate, Value: -1},
	{Key: domain.FieldEmployeeID, Value: 1},
}

type mongoEmployeeRepository struct {
	coll *mongo.Collection
}

// NewMongoEmployeeRepository creates a store backed by a MongoDB collection.
func NewMongoEmployeeRepository(db *mongo.Database, collection string) domain.EmployeeStore {
	return &mongoEmployeeRepository{coll: db.Collection(collection)}
}

func (r *mongoEmployeeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.coll.Indexes().CreateMany(ctx, EmployeeIndexes); err != nil {
		return fmt.Errorf("failed to create employee indexes: %w", err)
	}
	return nil
}

func (r *mongoEmployeeRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *mongoEmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	doc := e.Clone()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to insert employee %s: %w", e.EmployeeID, err)
	}
	normalize(&doc)
	return &doc, nil
}

func (r *mongoEmployeeRepository) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	var e domain.Employee
	err := r.coll.FindOne(ctx, byEmployeeID(employeeID), options.FindOne().SetProjection(employeeProjection)).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}
	normalize(&e)
	return &e, nil
}

func (r *mongoEmployeeRepository) Update(ctx context.Context, employeeID string, patch domain.EmployeePatch) (*domain.Employee, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(employeeProjection)

	var e domain.Employee
	err := r.coll.FindOneAndUpdate(ctx, byEmployeeID(employeeID), setDocument(patch), opts).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update employee %s: %w", employeeID, err)
	}
	normalize(&e)
	return &e, nil
}

func (r *mongoEmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	res, err := r.coll.DeleteOne(ctx, byEmployeeID(employeeID))
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", employeeID, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoEmployeeRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Employee, error) {
	opts := options.Find().
		SetProjection(employeeProjection).
		SetSort(employeeSort).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))
	return r.find(ctx, listFilter(q), opts)
}

func (r *mongoEmployeeRepository) SearchBySkill(ctx context.Context, skill string) ([]domain.Employee, error) {
	opts := options.Find().
		SetProjection(employeeProjection).
		SetSort(employeeSort)
	return r.find(ctx, skillFilter(skill), opts)
}

func (r *mongoEmployeeRepository) AverageSalaryByDepartment(ctx context.Context) ([]domain.DepartmentSalary, error) {
	cursor, err := r.coll.Aggregate(ctx, averageSalaryPipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate salaries: %w", err)
	}
	defer cursor.Close(ctx)

	out := []domain.DepartmentSalary{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode salary aggregation: %w", err)
	}
	return out, nil
}

func (r *mongoEmployeeRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]domain.Employee, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer cursor.Close(ctx)

	employees := []domain.Employee{}
	for cursor.Next(ctx) {
		var e domain.Employee
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode employee: %w", err)
		}
		normalize(&e)
		employees = append(employees, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return employees, nil
}

func byEmployeeID(employeeID string) bson.D {
	return bson.D{{Key: domain.FieldEmployeeID, Value: employeeID}}
}

func listFilter(q domain.ListQuery) bson.D {
	filter := bson.D{}
	if q.Department != "" {
		filter = append(filter, bson.E{Key: domain.FieldDepartment, Value: q.Department})
	}
	return filter
}

// skillFilter matches records whose skills array holds skill as an element.
func skillFilter(skill string) bson.D {
	return bson.D{{Key: domain.FieldSkills, Value: skill}}
}

func setDocument(patch domain.EmployeePatch) bson.D {
	set := bson.D{}
	for _, field := range patch.Fields() {
		set = append(set, bson.E{Key: field, Value: patch[field]})
	}
	return bson.D{{Key: "$set", Value: set}}
}

// averageSalaryPipeline groups by department; rounding happens in the service.
func averageSalaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + domain.FieldDepartment},
			{Key: "avg_salary", Value: bson.D{{Key: "$avg", Value: "$" + domain.FieldSalary}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "department", Value: "$_id"},
			{Key: "avg_salary", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "department", Value: 1}}}},
	}
}
