package queries

import (
	"errors"
	"fmt"

	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrListOperatorJobsQueryIsNotConstructed = errors.New(
		"ListOperatorJobsQuery must be created via NewListOperatorJobsQuery constructor",
	)
)

// OperatorJobFilter groups job statuses for the operator job board.
type OperatorJobFilter string

const (
	OperatorJobsAll        OperatorJobFilter = "all"
	OperatorJobsDelegating OperatorJobFilter = "delegating"
	OperatorJobsActive     OperatorJobFilter = "active"
	OperatorJobsCompleted  OperatorJobFilter = "completed"
)

// ParseOperatorJobFilter maps an empty string to OperatorJobsAll.
func ParseOperatorJobFilter(s string) (OperatorJobFilter, error) {
	switch f := OperatorJobFilter(s); f {
	case "":
		return OperatorJobsAll, nil
	case OperatorJobsAll, OperatorJobsDelegating, OperatorJobsActive, OperatorJobsCompleted:
		return f, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("filter", fmt.Errorf("unknown job filter %q", s))
	}
}

// ListOperatorJobsQuery lists the jobs routed to the calling operator.
type ListOperatorJobsQuery struct {
	actor      services.Actor
	filter     OperatorJobFilter
	pagination Pagination

	guard guard.ConstructorGuard
}

func NewListOperatorJobsQuery(actor services.Actor, filter OperatorJobFilter, pagination Pagination) (ListOperatorJobsQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListOperatorJobsQuery{}, err
	}
	f, err := ParseOperatorJobFilter(string(filter))
	if err != nil {
		return ListOperatorJobsQuery{}, err
	}
	return ListOperatorJobsQuery{
		actor:      actor,
		filter:     f,
		pagination: NewPagination(pagination.Page, pagination.PerPage),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListOperatorJobsQuery) Validate() error {
	return q.guard.Validate(ErrListOperatorJobsQueryIsNotConstructed)
}

func (q ListOperatorJobsQuery) Actor() services.Actor     { return q.actor }
func (q ListOperatorJobsQuery) Filter() OperatorJobFilter { return q.filter }
func (q ListOperatorJobsQuery) Pagination() Pagination    { return q.pagination }

// OperatorJob adds the names an operator needs to delegate and follow up.
type OperatorJob struct {
	JobView
	DriverName    string
	CustomerName  string
	CustomerEmail string
}
