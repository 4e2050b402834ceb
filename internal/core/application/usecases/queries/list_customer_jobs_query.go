package queries

import (
	"errors"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrListCustomerJobsQueryIsNotConstructed = errors.New(
		"ListCustomerJobsQuery must be created via NewListCustomerJobsQuery constructor",
	)
)

// ListCustomerJobsQuery lists the jobs the actor booked, newest first,
// optionally restricted to one status.
type ListCustomerJobsQuery struct {
	actor      services.Actor
	status     *job.Status
	pagination Pagination

	guard guard.ConstructorGuard
}

func NewListCustomerJobsQuery(actor services.Actor, status *job.Status, pagination Pagination) (ListCustomerJobsQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListCustomerJobsQuery{}, err
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListCustomerJobsQuery{}, err
		}
	}
	return ListCustomerJobsQuery{
		actor:      actor,
		status:     status,
		pagination: NewPagination(pagination.Page, pagination.PerPage),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListCustomerJobsQuery) Validate() error {
	return q.guard.Validate(ErrListCustomerJobsQueryIsNotConstructed)
}

func (q ListCustomerJobsQuery) Actor() services.Actor  { return q.actor }
func (q ListCustomerJobsQuery) Status() *job.Status    { return q.status }
func (q ListCustomerJobsQuery) Pagination() Pagination { return q.pagination }
