package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListCustomerJobsQueryHandler struct {
	db *gorm.DB
}

func NewListCustomerJobsQueryHandler(db *gorm.DB) ListCustomerJobsQueryHandler {
	return ListCustomerJobsQueryHandler{db: db}
}

func (h ListCustomerJobsQueryHandler) Handle(ctx context.Context, query ListCustomerJobsQuery) (Page[JobView], error) {
	if err := query.Validate(); err != nil {
		return Page[JobView]{}, err
	}

	where := "j.customer_id = ?"
	args := []any{query.Actor().UserID.Bytes()}
	if s := query.Status(); s != nil {
		where += " AND j.status = ?"
		args = append(args, s.String())
	}
	return listJobViews(ctx, h.db, where, args, query.Pagination())
}
