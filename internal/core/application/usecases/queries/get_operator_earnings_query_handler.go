package queries

import (
	"context"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOperatorEarningsQueryHandler struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGetOperatorEarningsQueryHandler(db *gorm.DB, clock ports.Clock) GetOperatorEarningsQueryHandler {
	return GetOperatorEarningsQueryHandler{db: db, clock: clock}
}

// Handle groups the commission by fleet member, highest first. Totals are the
// sums over all members.
func (h GetOperatorEarningsQueryHandler) Handle(ctx context.Context, query GetOperatorEarningsQuery) (OperatorEarnings, error) {
	if err := query.Validate(); err != nil {
		return OperatorEarnings{}, err
	}
	operatorID, err := requireOperator(query.Actor(), "operator earnings")
	if err != nil {
		return OperatorEarnings{}, err
	}
	now := h.clock.Now()

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			c.id,
			COALESCE(u.name, ''),
			SUM(p.operator_payout),
			COALESCE(SUM(p.operator_payout) FILTER (WHERE p.created_at >= @since30), 0),
			COALESCE(SUM(p.operator_payout) FILTER (WHERE p.created_at >= @since7), 0),
			COUNT(*)
		FROM payments p
		JOIN jobs j ON j.id = p.job_id
		JOIN contractors c ON c.id = j.driver_id
		LEFT JOIN users u ON u.id = c.user_id
		WHERE j.operator_id = @op
			AND c.operator_id = @op
			AND p.status = @succeeded
		GROUP BY c.id, u.name
		ORDER BY SUM(p.operator_payout) DESC, c.id
	`, map[string]any{
		"op":        operatorID.Bytes(),
		"succeeded": payment.Succeeded.String(),
		"since30":   now.Add(-30 * 24 * time.Hour),
		"since7":    now.Add(-7 * 24 * time.Hour),
	}).Rows()
	if err != nil {
		return OperatorEarnings{}, err
	}
	defer rows.Close()

	earnings := OperatorEarnings{PerContractor: make([]ContractorCommission, 0)}
	for rows.Next() {
		var (
			cc                     ContractorCommission
			id                     uuid.UUID
			total, last30d, last7d int64
		)
		if err = rows.Scan(&id, &cc.Name, &total, &last30d, &last7d, &cc.Jobs); err != nil {
			return OperatorEarnings{}, err
		}
		if cc.ContractorID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return OperatorEarnings{}, err
		}
		cc.Commission = kernel.Money(total)

		earnings.Total += cc.Commission
		earnings.Last30d += kernel.Money(last30d)
		earnings.Last7d += kernel.Money(last7d)
		earnings.PerContractor = append(earnings.PerContractor, cc)
	}
	if err = rows.Err(); err != nil {
		return OperatorEarnings{}, err
	}
	return earnings, nil
}
