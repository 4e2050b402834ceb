package queries

import (
	"errors"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrListPricingRulesQueryIsNotConstructed = errors.New(
		"ListPricingRulesQuery must be created via NewListPricingRulesQuery constructor",
	)
)

// ListPricingRulesQuery is the admin view of the unit price table,
// inactive rules included.
type ListPricingRulesQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewListPricingRulesQuery(actor services.Actor) (ListPricingRulesQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListPricingRulesQuery{}, err
	}
	return ListPricingRulesQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListPricingRulesQuery) Validate() error {
	return q.guard.Validate(ErrListPricingRulesQueryIsNotConstructed)
}

func (q ListPricingRulesQuery) Actor() services.Actor { return q.actor }

type PricingRuleView struct {
	ID          kernel.UUID
	Category    string
	UnitPrice   kernel.Money
	IsActive    bool
	Description string
	UpdatedAt   time.Time
}
