package service

import (
	"math"

	"github.com/locvowork/employee_records/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams carries the raw listing parameters. Nil means "not supplied".
type ListParams struct {
	Department string
	Skip       *int
	Page       *int
	Limit      *int
}

// ResolveListQuery applies defaults and bounds and converts page to skip.
// Out-of-range values are rejected, never clamped.
func ResolveListQuery(p ListParams) (domain.ListQuery, error) {
	q := domain.ListQuery{Department: p.Department, Limit: DefaultLimit}

	if p.Limit != nil {
		q.Limit = *p.Limit
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return domain.ListQuery{}, domain.InvalidInputf("limit must be between 1 and %d", MaxLimit)
	}

	if p.Page != nil && p.Skip != nil {
		return domain.ListQuery{}, domain.InvalidInputf("page and skip are mutually exclusive")
	}
	if p.Skip != nil {
		if *p.Skip < 0 {
			return domain.ListQuery{}, domain.InvalidInputf("skip must not be negative")
		}
		q.Skip = *p.Skip
	}
	if p.Page != nil {
		skip, err := PageToSkip(*p.Page, q.Limit)
		if err != nil {
			return domain.ListQuery{}, err
		}
		q.Skip = skip
	}
	if q.Skip < 0 {
		return domain.ListQuery{}, domain.InvalidInputf("skip must not be negative")
	}
	return q, nil
}

// PageToSkip converts a 1-based page number into an offset. Pages whose
// offset does not fit in an int are rejected.
func PageToSkip(page, limit int) (int, error) {
	if page < 1 {
		return 0, domain.InvalidInputf("page must be at least 1")
	}
	if limit > 0 && page-1 > math.MaxInt/limit {
		return 0, domain.InvalidInputf("page is out of range")
	}
	return (page - 1) * limit, nil
}
