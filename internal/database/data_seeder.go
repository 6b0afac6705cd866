package database

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/pkg/dataflow"
)

// EmployeeWriter is the subset of the employee service the seeder needs.
type EmployeeWriter interface {
	Create(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, employeeID string) error
}

type DataSeeder struct {
	writer  EmployeeWriter
	workers int
	rng     *rand.Rand
}

func NewDataSeeder(w EmployeeWriter, workers int, seed int64) *DataSeeder {
	if workers < 1 {
		workers = 1
	}
	return &DataSeeder{writer: w, workers: workers, rng: rand.New(rand.NewSource(seed))}
}

// SeedStats summarises one seeding run.
type SeedStats struct {
	Created int64
	Skipped int64
}

var (
	firstNames  = []string{"An", "Binh", "Chi", "Dung", "Giang", "Hoa", "Khanh", "Linh", "Minh", "Nam", "Phuong", "Quan"}
	lastNames   = []string{"Nguyen", "Tran", "Le", "Pham", "Hoang", "Vo", "Dang", "Bui"}
	departments = []string{"Engineering", "Sales", "Marketing", "Finance", "Operations", "HR"}
	skillPool   = []string{"Go", "Python", "SQL", "Kubernetes", "AWS", "Excel", "Negotiation", "React", "Terraform", "Communication"}
)

var seedStart = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

// SeedID is the employee_id of the i-th seeded record (1-based).
func SeedID(i int) string {
	return fmt.Sprintf("SEED-%05d", i)
}

// writeRetries is how often a failed write is retried before the run fails.
const writeRetries = 2

func retryBackoff(attempt int) time.Duration {
	return time.Duration(attempt) * 50 * time.Millisecond
}

// writeOutcome is what the concurrent write stage hands to the tally stage.
type writeOutcome struct {
	skipped bool
}

// firstError keeps the first error reported by a pipeline stage.
type firstError struct {
	once sync.Once
	err  error
}

func (f *firstError) record(err error) bool {
	f.once.Do(func() { f.err = err })
	return true
}

// SeedData creates count employees SEED-00001..SEED-<count>. Records that
// already exist are counted as skipped.
func (ds *DataSeeder) SeedData(ctx context.Context, count int) (SeedStats, error) {
	start := time.Now()
	var stats SeedStats
	var failed firstError

	inputs := dataflow.Generate(ctx, count, func(i int) domain.EmployeeInput {
		return ds.randomEmployee(i + 1)
	})
	outcomes := dataflow.Map(ctx, inputs, func(in domain.EmployeeInput) (writeOutcome, error) {
		_, err := ds.writer.Create(ctx, in)
		if errors.Is(err, domain.ErrDuplicateKey) {
			return writeOutcome{skipped: true}, nil
		}
		if err != nil {
			return writeOutcome{}, fmt.Errorf("failed to create %s: %w", *in.EmployeeID, err)
		}
		return writeOutcome{}, nil
	},
		dataflow.WithWorkers(ds.workers),
		dataflow.WithRetry(writeRetries, retryBackoff),
		dataflow.WithErrorHandler(failed.record),
	)

	err := dataflow.ForEach(ctx, outcomes, func(o writeOutcome) error {
		if o.skipped {
			stats.Skipped++
		} else {
			stats.Created++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	if failed.err != nil {
		return stats, failed.err
	}

	logger.InfoLog(ctx, "Seeded %d employees (%d skipped) in %v", stats.Created, stats.Skipped, time.Since(start))
	return stats, nil
}

// ClearData deletes SEED-00001..SEED-<count>, ignoring ids that do not exist.
func (ds *DataSeeder) ClearData(ctx context.Context, count int) (int64, error) {
	var deleted int64
	var failed firstError

	ids := dataflow.Generate(ctx, count, func(i int) string { return SeedID(i + 1) })
	outcomes := dataflow.Map(ctx, ids, func(id string) (writeOutcome, error) {
		err := ds.writer.Delete(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return writeOutcome{skipped: true}, nil
		}
		if err != nil {
			return writeOutcome{}, fmt.Errorf("failed to delete %s: %w", id, err)
		}
		return writeOutcome{}, nil
	},
		dataflow.WithWorkers(ds.workers),
		dataflow.WithRetry(writeRetries, retryBackoff),
		dataflow.WithErrorHandler(failed.record),
	)

	err := dataflow.ForEach(ctx, outcomes, func(o writeOutcome) error {
		if !o.skipped {
			deleted++
		}
		return nil
	})
	if err != nil {
		return deleted, err
	}
	if failed.err != nil {
		return deleted, failed.err
	}

	logger.InfoLog(ctx, "Cleared %d seeded employees", deleted)
	return deleted, nil
}

// randomEmployee is only called from the Generate goroutine, so the shared
// rng needs no locking.
func (ds *DataSeeder) randomEmployee(i int) domain.EmployeeInput {
	name := firstNames[ds.rng.Intn(len(firstNames))] + " " + lastNames[ds.rng.Intn(len(lastNames))]
	department := departments[ds.rng.Intn(len(departments))]
	salary := float64(40000_00+ds.rng.Intn(120000_00)) / 100
	joined := seedStart.AddDate(0, 0, ds.rng.Intn(3650)).Format("2006-01-02")
	skills := randomSelect(ds.rng, skillPool, ds.rng.Intn(4)+1)

	id := SeedID(i)
	return domain.EmployeeInput{
		EmployeeID:  &id,
		Name:        &name,
		Department:  &department,
		Salary:      &salary,
		JoiningDate: &joined,
		Skills:      &skills,
	}
}

// randomSelect picks count distinct items.
func randomSelect(rng *rand.Rand, items []string, count int) []string {
	if count > len(items) {
		count = len(items)
	}
	result := make([]string, count)
	perm := rng.Perm(len(items))
	for i := 0; i < count; i++ {
		result[i] = items[perm[i]]
	}
	return result
}
