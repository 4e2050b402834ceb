package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetContractorEarningsQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGetContractorEarningsQueryHandler(db *gorm.DB, clock ports.Clock) GetContractorEarningsQueryHandler {
	return GetContractorEarningsQueryHandler{db: db, clock: clock}
}

func (h GetContractorEarningsQueryHandler) Handle(ctx context.Context, query GetContractorEarningsQuery) (ContractorEarnings, error) {
	if err := query.Validate(); err != nil {
		return ContractorEarnings{}, err
	}
	contractorID, err := requireContractor(query.Actor(), "contractor earnings")
	if err != nil {
		return ContractorEarnings{}, err
	}
	now := h.clock.Now()

	var total, tips, last30d, last7d, pending int64
	var totalJobs int
	err = h.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(p.driver_payout), 0),
			COALESCE(SUM(p.tip), 0),
			COALESCE(SUM(p.driver_payout) FILTER (WHERE p.created_at >= @since30), 0),
			COALESCE(SUM(p.driver_payout) FILTER (WHERE p.created_at >= @since7), 0),
			COALESCE(SUM(p.driver_payout) FILTER (WHERE p.payout_status = @payoutPending), 0),
			c.total_jobs
		FROM contractors c
		LEFT JOIN jobs j ON j.driver_id = c.id
		LEFT JOIN payments p ON p.job_id = j.id AND p.status = @succeeded
		WHERE c.id = @contractor
		GROUP BY c.id
	`, map[string]any{
		"contractor":    contractorID.Bytes(),
		"succeeded":     payment.Succeeded.String(),
		"payoutPending": payment.PayoutPending.String(),
		"since30":       now.Add(-30 * 24 * time.Hour),
		"since7":        now.Add(-7 * 24 * time.Hour),
	}).Row().Scan(&total, &tips, &last30d, &last7d, &pending, &totalJobs)
	if errors.Is(err, sql.ErrNoRows) {
		return ContractorEarnings{}, errs.NewObjectNotFoundError("contractor", contractorID.String())
	}
	if err != nil {
		return ContractorEarnings{}, err
	}

	return ContractorEarnings{
		TotalEarnings: kernel.Money(total),
		TotalTips:     kernel.Money(tips),
		Last30d:       kernel.Money(last30d),
		Last7d:        kernel.Money(last7d),
		PendingPayout: kernel.Money(pending),
		TotalJobs:     totalJobs,
	}, nil
}
