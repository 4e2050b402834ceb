package queries

import (
	"context"
	"time"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/ports"

	"gorm.io/gorm"
)

type GetOperatorDashboardQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGetOperatorDashboardQueryHandler(db *gorm.DB, clock ports.Clock) GetOperatorDashboardQueryHandler {
	return GetOperatorDashboardQueryHandler{db: db, clock: clock}
}

func (h GetOperatorDashboardQueryHandler) Handle(ctx context.Context, query GetOperatorDashboardQuery) (OperatorDashboard, error) {
	if err := query.Validate(); err != nil {
		return OperatorDashboard{}, err
	}
	operatorID, err := requireOperator(query.Actor(), "operator dashboard")
	if err != nil {
		return OperatorDashboard{}, err
	}
	since := h.clock.Now().Add(-30 * 24 * time.Hour)

	var (
		d        OperatorDashboard
		earnings int64
	)
	err = h.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM contractors WHERE operator_id = @op),
			(SELECT COUNT(*) FROM contractors WHERE operator_id = @op AND is_online),
			(SELECT COUNT(*) FROM jobs WHERE operator_id = @op AND status = @delegating),
			(SELECT COALESCE(SUM(p.operator_payout), 0)
				FROM payments p
				JOIN jobs j ON j.id = p.job_id
				JOIN contractors c ON c.id = j.driver_id
				WHERE j.operator_id = @op
					AND c.operator_id = @op
					AND p.status = @succeeded
					AND p.created_at >= @since)
	`, map[string]any{
		"op":         operatorID.Bytes(),
		"delegating": job.Delegating.String(),
		"succeeded":  payment.Succeeded.String(),
		"since":      since,
	}).Row().Scan(&d.FleetSize, &d.OnlineCount, &d.PendingDelegation, &earnings)
	if err != nil {
		return OperatorDashboard{}, err
	}
	d.Earnings30d = kernel.Money(earnings)
	return d, nil
}
