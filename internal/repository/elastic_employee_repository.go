package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olivere/elastic/v7"

	"github.com/locvowork/employee_records/internal/domain"
)

const employeeMapping = `{
	"settings": {"number_of_shards": 1},
	"mappings": {
		"dynamic": "strict",
		"properties": {
			"employee_id":  {"type": "keyword"},
			"name":         {"type": "keyword"},
			"department":   {"type": "keyword"},
			"salary":       {"type": "double"},
			"joining_date": {"type": "date"},
			"skills":       {"type": "keyword"}
		}
	}
}`

const (
	departmentsAgg = "departments"
	avgSalaryAgg   = "avg_salary"
	// maxDepartments bounds the terms aggregation bucket count.
	maxDepartments = 10000
	scrollSize     = 1000
)

// maxResultWindow is the index.max_result_window default; from+size beyond
// it is rejected by Elasticsearch.
const maxResultWindow = 10000

// elasticEmployeeRepository uses employee_id as the document _id and
// op_type=create for inserts, so Elasticsearch rejects duplicates. Writes
// refresh the index so reads observe them immediately.
type elasticEmployeeRepository struct {
	client *elastic.Client
	index  string
	window int
}

// NewElasticEmployeeRepository creates a store backed by an Elasticsearch index.
func NewElasticEmployeeRepository(client *elastic.Client, index string) domain.EmployeeStore {
	return &elasticEmployeeRepository{client: client, index: index, window: maxResultWindow}
}

func (r *elasticEmployeeRepository) EnsureSchema(ctx context.Context) error {
	exists, err := r.client.IndexExists(r.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", r.index, err)
	}
	if exists {
		return nil
	}
	if _, err := r.client.CreateIndex(r.index).BodyString(employeeMapping).Do(ctx); err != nil {
		if isIndexAlreadyExists(err) {
			return nil
		}
		return fmt.Errorf("failed to create index %s: %w", r.index, err)
	}
	return nil
}

func (r *elasticEmployeeRepository) Ping(ctx context.Context) error {
	_, err := r.client.ClusterHealth().Index(r.index).Do(ctx)
	return err
}

func (r *elasticEmployeeRepository) Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	doc := e.Clone()
	_, err := r.client.Index().
		Index(r.index).
		Id(e.EmployeeID).
		OpType("create").
		BodyJson(doc).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsConflict(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to index employee %s: %w", e.EmployeeID, err)
	}
	normalize(&doc)
	return &doc, nil
}

func (r *elasticEmployeeRepository) Get(ctx context.Context, employeeID string) (*domain.Employee, error) {
	res, err := r.client.Get().
		Index(r.index).
		Id(employeeID).
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}
	if !res.Found {
		return nil, domain.ErrNotFound
	}
	return decodeEmployee(res.Source)
}

func (r *elasticEmployeeRepository) Update(ctx context.Context, employeeID string, patch domain.EmployeePatch) (*domain.Employee, error) {
	res, err := r.client.Update().
		Index(r.index).
		Id(employeeID).
		Doc(patchDocument(patch)).
		FetchSource(true).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update employee %s: %w", employeeID, err)
	}
	if res.GetResult == nil {
		return nil, fmt.Errorf("update of employee %s returned no source", employeeID)
	}
	return decodeEmployee(res.GetResult.Source)
}

func (r *elasticEmployeeRepository) Delete(ctx context.Context, employeeID string) error {
	_, err := r.client.Delete().
		Index(r.index).
		Id(employeeID).
		Refresh("true").
		Do(ctx)
	if err != nil {
		if elastic.IsNotFound(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to delete employee %s: %w", employeeID, err)
	}
	return nil
}

// List uses from/size inside the result window. Deeper pages walk the
// sort order with search_after, skipping q.Skip hits without their source.
func (r *elasticEmployeeRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Employee, error) {
	if q.Skip+q.Limit <= r.window {
		res, err := r.sortedSearch(q.Department).
			From(q.Skip).
			Size(q.Limit).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to search employees: %w", err)
		}
		return decodeHits(res.Hits.Hits)
	}

	var after []interface{}
	for remaining := q.Skip; remaining > 0; {
		size := remaining
		if size > r.window {
			size = r.window
		}
		hits, err := r.searchAfter(ctx, q.Department, after, size, false)
		if err != nil {
			return nil, err
		}
		if len(hits) < size {
			return []domain.Employee{}, nil
		}
		after = hits[len(hits)-1].Sort
		remaining -= len(hits)
	}

	hits, err := r.searchAfter(ctx, q.Department, after, q.Limit, true)
	if err != nil {
		return nil, err
	}
	return decodeHits(hits)
}

// Walk visits every matching record in list order, a page at a time.
func (r *elasticEmployeeRepository) Walk(ctx context.Context, department string, fn func(domain.Employee) error) error {
	var after []interface{}
	for {
		hits, err := r.searchAfter(ctx, department, after, scrollSize, true)
		if err != nil {
			return err
		}
		employees, err := decodeHits(hits)
		if err != nil {
			return err
		}
		for _, e := range employees {
			if err := fn(e); err != nil {
				return err
			}
		}
		if len(hits) < scrollSize {
			return nil
		}
		after = hits[len(hits)-1].Sort
	}
}

func (r *elasticEmployeeRepository) sortedSearch(department string) *elastic.SearchService {
	return r.client.Search().
		Index(r.index).
		Query(listQuery(domain.ListQuery{Department: department})).
		Sort(domain.FieldJoiningDate, false).
		Sort(domain.FieldEmployeeID, true)
}

func (r *elasticEmployeeRepository) searchAfter(ctx context.Context, department string, after []interface{}, size int, withSource bool) ([]*elastic.SearchHit, error) {
	search := r.sortedSearch(department).
		Size(size).
		FetchSource(withSource)
	if after != nil {
		search = search.SearchAfter(after...)
	}
	res, err := search.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	if res.Hits == nil {
		return nil, nil
	}
	return res.Hits.Hits, nil
}

// SearchBySkill scrolls through every match, then applies the canonical order.
func (r *elasticEmployeeRepository) SearchBySkill(ctx context.Context, skill string) ([]domain.Employee, error) {
	scroll := r.client.Scroll(r.index).
		Query(elastic.NewTermQuery(domain.FieldSkills, skill)).
		Size(scrollSize).
		KeepAlive("1m").
		Sort("_doc", true)
	defer scroll.Clear(context.Background())

	employees := []domain.Employee{}
	for {
		res, err := scroll.Do(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scroll error: %w", err)
		}
		batch, err := decodeHits(res.Hits.Hits)
		if err != nil {
			return nil, err
		}
		employees = append(employees, batch...)
	}
	domain.SortEmployees(employees)
	return employees, nil
}

func (r *elasticEmployeeRepository) AverageSalaryByDepartment(ctx context.Context) ([]domain.DepartmentSalary, error) {
	res, err := r.client.Search().
		Index(r.index).
		Size(0).
		Aggregation(departmentsAgg, averageSalaryAggregation()).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate salaries: %w", err)
	}
	return decodeAverages(res.Aggregations)
}

func listQuery(q domain.ListQuery) elastic.Query {
	if q.Department == "" {
		return elastic.NewMatchAllQuery()
	}
	return elastic.NewBoolQuery().Filter(elastic.NewTermQuery(domain.FieldDepartment, q.Department))
}

func averageSalaryAggregation() *elastic.TermsAggregation {
	return elastic.NewTermsAggregation().
		Field(domain.FieldDepartment).
		Size(maxDepartments).
		OrderByKeyAsc().
		SubAggregation(avgSalaryAgg, elastic.NewAvgAggregation().Field(domain.FieldSalary))
}

func decodeAverages(aggs elastic.Aggregations) ([]domain.DepartmentSalary, error) {
	out := []domain.DepartmentSalary{}
	terms, ok := aggs.Terms(departmentsAgg)
	if !ok {
		return out, nil
	}
	for _, bucket := range terms.Buckets {
		dept, ok := bucket.Key.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected department key %v", bucket.Key)
		}
		avg, ok := bucket.Avg(avgSalaryAgg)
		if !ok || avg.Value == nil {
			continue
		}
		out = append(out, domain.DepartmentSalary{Department: dept, AvgSalary: *avg.Value})
	}
	return out, nil
}

func patchDocument(patch domain.EmployeePatch) map[string]interface{} {
	doc := make(map[string]interface{}, len(patch))
	for _, field := range patch.Fields() {
		doc[field] = patch[field]
	}
	return doc
}

func decodeEmployee(source json.RawMessage) (*domain.Employee, error) {
	var e domain.Employee
	if err := json.Unmarshal(source, &e); err != nil {
		return nil, fmt.Errorf("failed to decode employee: %w", err)
	}
	normalize(&e)
	return &e, nil
}

func decodeHits(hits []*elastic.SearchHit) ([]domain.Employee, error) {
	employees := make([]domain.Employee, 0, len(hits))
	for _, hit := range hits {
		e, err := decodeEmployee(hit.Source)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, nil
}

func isIndexAlreadyExists(err error) bool {
	var esErr *elastic.Error
	return errors.As(err, &esErr) && esErr.Details != nil &&
		esErr.Details.Type == "resource_already_exists_exception"
}
