package queries

import (
	"errors"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrListJobsQueryIsNotConstructed = errors.New(
		"ListJobsQuery must be created via NewListJobsQuery constructor",
	)
)

// ListJobsQuery is the admin listing of every job.
type ListJobsQuery struct {
	actor      services.Actor
	status     *job.Status
	pagination Pagination

	guard guard.ConstructorGuard
}

func NewListJobsQuery(actor services.Actor, status *job.Status, pagination Pagination) (ListJobsQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListJobsQuery{}, err
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return ListJobsQuery{}, err
		}
	}
	return ListJobsQuery{
		actor:      actor,
		status:     status,
		pagination: NewPagination(pagination.Page, pagination.PerPage),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListJobsQuery) Validate() error {
	return q.guard.Validate(ErrListJobsQueryIsNotConstructed)
}

func (q ListJobsQuery) Actor() services.Actor  { return q.actor }
func (q ListJobsQuery) Status() *job.Status    { return q.status }
func (q ListJobsQuery) Pagination() Pagination { return q.pagination }
