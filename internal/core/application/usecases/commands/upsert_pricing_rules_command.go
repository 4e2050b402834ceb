package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrUpsertPricingRulesCommandIsNotConstructed = errors.New(
		"UpsertPricingRulesCommand must be created via NewUpsertPricingRulesCommand constructor",
	)
)

// RuleInput is one category price submitted by an admin.
type RuleInput struct {
	Category    string
	UnitPrice   kernel.Money
	IsActive    bool
	Description string
}

// UpsertPricingRulesCommand creates or updates unit prices by category.
type UpsertPricingRulesCommand struct {
	actor services.Actor
	rules []RuleInput

	guard guard.ConstructorGuard
}

func NewUpsertPricingRulesCommand(actor services.Actor, rules []RuleInput) (UpsertPricingRulesCommand, error) {
	if err := validateActor(actor); err != nil {
		return UpsertPricingRulesCommand{}, err
	}
	if len(rules) == 0 {
		return UpsertPricingRulesCommand{}, errs.NewValueIsRequiredError("rules")
	}
	return UpsertPricingRulesCommand{actor: actor, rules: rules, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertPricingRulesCommand) Validate() error {
	return c.guard.Validate(ErrUpsertPricingRulesCommandIsNotConstructed)
}

func (c UpsertPricingRulesCommand) Actor() services.Actor { return c.actor }
func (c UpsertPricingRulesCommand) Rules() []RuleInput    { return c.rules }
