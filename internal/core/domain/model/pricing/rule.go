package pricing

import (
	"strings"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

// Rule is the admin-configured unit price of an item category.
type Rule struct {
	id          kernel.UUID
	category    string
	unitPrice   kernel.Money
	isActive    bool
	description string
	updatedAt   time.Time
}

func NewRule(id kernel.UUID, category string, unitPrice kernel.Money, isActive bool, description string, now time.Time) (*Rule, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return nil, errs.NewValueIsRequiredError("category")
	}
	if unitPrice.IsNegative() {
		return nil, errs.NewValueIsOutOfRangeError("unit price", unitPrice, 0, "unbounded")
	}
	return &Rule{
		id:          id,
		category:    c,
		unitPrice:   unitPrice,
		isActive:    isActive,
		description: strings.TrimSpace(description),
		updatedAt:   now,
	}, nil
}

// Update replaces the mutable fields of an existing rule.
func (r *Rule) Update(unitPrice kernel.Money, isActive bool, description string, now time.Time) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsOutOfRangeError("unit price", unitPrice, 0, "unbounded")
	}
	r.unitPrice = unitPrice
	r.isActive = isActive
	r.description = strings.TrimSpace(description)
	r.updatedAt = now
	return nil
}

func (r *Rule) ID() kernel.UUID         { return r.id }
func (r *Rule) Category() string        { return r.category }
func (r *Rule) UnitPrice() kernel.Money { return r.unitPrice }
func (r *Rule) IsActive() bool          { return r.isActive }
func (r *Rule) Description() string     { return r.description }
func (r *Rule) UpdatedAt() time.Time    { return r.updatedAt }
