package queries

import (
	"context"

	"gorm.io/gorm"
)

type ListJobsQueryHandler struct {
	db *gorm.DB
}

func NewListJobsQueryHandler(db *gorm.DB) ListJobsQueryHandler {
	return ListJobsQueryHandler{db: db}
}

func (h ListJobsQueryHandler) Handle(ctx context.Context, query ListJobsQuery) (Page[JobView], error) {
	if err := query.Validate(); err != nil {
		return Page[JobView]{}, err
	}
	if err := requireAdmin(query.Actor(), "list jobs"); err != nil {
		return Page[JobView]{}, err
	}

	where := "TRUE"
	var args []any
	if s := query.Status(); s != nil {
		where = "j.status = ?"
		args = append(args, s.String())
	}
	return listJobViews(ctx, h.db, where, args, query.Pagination())
}
