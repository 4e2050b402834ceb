package queries

import (
	"context"

	"junkos/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListPricingRulesQueryHandler struct {
	db *gorm.DB
}

func NewListPricingRulesQueryHandler(db *gorm.DB) ListPricingRulesQueryHandler {
	return ListPricingRulesQueryHandler{db: db}
}

func (h ListPricingRulesQueryHandler) Handle(ctx context.Context, query ListPricingRulesQuery) ([]PricingRuleView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(query.Actor(), "list pricing rules"); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			category,
			unit_price,
			is_active,
			COALESCE(description, ''),
			updated_at
		FROM pricing_rules
		ORDER BY category
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]PricingRuleView, 0)
	for rows.Next() {
		var (
			r     PricingRuleView
			id    uuid.UUID
			price int64
		)
		if err = rows.Scan(&id, &r.Category, &price, &r.IsActive, &r.Description, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if r.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		r.UnitPrice = kernel.Money(price)
		rules = append(rules, r)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}
