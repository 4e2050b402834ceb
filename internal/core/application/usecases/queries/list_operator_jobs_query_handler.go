package queries

import (
	"context"

	"junkos/internal/core/domain/model/job"

	"gorm.io/gorm"
)

type ListOperatorJobsQueryHandler struct {
	db *gorm.DB
}

func NewListOperatorJobsQueryHandler(db *gorm.DB) ListOperatorJobsQueryHandler {
	return ListOperatorJobsQueryHandler{db: db}
}

func (h ListOperatorJobsQueryHandler) Handle(ctx context.Context, query ListOperatorJobsQuery) (Page[OperatorJob], error) {
	if err := query.Validate(); err != nil {
		return Page[OperatorJob]{}, err
	}
	operatorID, err := requireOperator(query.Actor(), "list operator jobs")
	if err != nil {
		return Page[OperatorJob]{}, err
	}

	where := "j.operator_id = ?"
	args := []any{operatorID.Bytes()}
	switch query.Filter() {
	case OperatorJobsDelegating:
		where += " AND j.status = ?"
		args = append(args, job.Delegating.String())
	case OperatorJobsActive:
		where += " AND j.status IN ?"
		args = append(args, []string{
			job.Assigned.String(), job.Accepted.String(), job.EnRoute.String(),
			job.Arrived.String(), job.Started.String(),
		})
	case OperatorJobsCompleted:
		where += " AND j.status = ?"
		args = append(args, job.Completed.String())
	case OperatorJobsAll:
	}

	var total int64
	if err = h.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM jobs j WHERE `+where, args...).Row().Scan(&total); err != nil {
		return Page[OperatorJob]{}, err
	}

	p := query.Pagination()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+jobViewColumns+`,
			COALESCE(du.name, ''),
			COALESCE(cu.name, ''),
			COALESCE(cu.email, '')
		`+jobViewFrom+`
		LEFT JOIN contractors c ON c.id = j.driver_id
		LEFT JOIN users du ON du.id = c.user_id
		LEFT JOIN users cu ON cu.id = j.customer_id
		WHERE `+where+`
		ORDER BY j.created_at DESC, j.id
		LIMIT ? OFFSET ?
	`, append(args, p.PerPage, p.offset())...).Rows()
	if err != nil {
		return Page[OperatorJob]{}, err
	}
	defer rows.Close()

	jobs := make([]OperatorJob, 0, p.PerPage)
	for rows.Next() {
		var oj OperatorJob
		v, scanErr := scanJobView(rows, &oj.DriverName, &oj.CustomerName, &oj.CustomerEmail)
		if scanErr != nil {
			return Page[OperatorJob]{}, scanErr
		}
		oj.JobView = v
		jobs = append(jobs, oj)
	}
	if err = rows.Err(); err != nil {
		return Page[OperatorJob]{}, err
	}
	return newPage(jobs, total, p), nil
}
