package queries

import (
	"context"
	"time"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/ports"

	"gorm.io/gorm"
)

type GetAdminDashboardQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGetAdminDashboardQueryHandler(db *gorm.DB, clock ports.Clock) GetAdminDashboardQueryHandler {
	return GetAdminDashboardQueryHandler{db: db, clock: clock}
}

func (h GetAdminDashboardQueryHandler) Handle(ctx context.Context, query GetAdminDashboardQuery) (AdminDashboard, error) {
	if err := query.Validate(); err != nil {
		return AdminDashboard{}, err
	}
	if err := requireAdmin(query.Actor(), "admin dashboard"); err != nil {
		return AdminDashboard{}, err
	}

	var (
		d                   AdminDashboard
		revenue, commission int64
	)
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM jobs),
			(SELECT COUNT(*) FROM jobs WHERE status = @completed),
			(SELECT COUNT(*) FROM jobs WHERE status = @pending),
			(SELECT COUNT(*) FROM jobs WHERE status IN @active),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM contractors),
			(SELECT COUNT(*) FROM contractors WHERE approval_status = @approved),
			(SELECT COUNT(*) FROM contractors WHERE approval_status = @approved AND is_online),
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = @succeeded AND created_at >= @since),
			(SELECT COALESCE(SUM(commission), 0) FROM payments WHERE status = @succeeded AND created_at >= @since)
	`, map[string]any{
		"completed": job.Completed.String(),
		"pending":   job.Pending.String(),
		"active": []string{
			job.Accepted.String(), job.Assigned.String(), job.EnRoute.String(),
			job.Arrived.String(), job.Started.String(),
		},
		"approved":  contractor.Approved.String(),
		"succeeded": payment.Succeeded.String(),
		"since":     h.clock.Now().Add(-30 * 24 * time.Hour),
	}).Row().Scan(
		&d.TotalJobs, &d.CompletedJobs, &d.PendingJobs, &d.ActiveJobs,
		&d.TotalUsers, &d.TotalContractors, &d.ApprovedContractors, &d.OnlineContractors,
		&revenue, &commission,
	)
	if err != nil {
		return AdminDashboard{}, err
	}
	d.Revenue30d = kernel.Money(revenue)
	d.Commission30d = kernel.Money(commission)
	return d, nil
}
