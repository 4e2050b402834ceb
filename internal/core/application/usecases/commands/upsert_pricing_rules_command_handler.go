package commands

import (
	"context"
	"errors"
	"strings"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// UpsertPricingRulesCommandHandler stores the submitted category prices in one
// transaction. Categories without a rule get a new one.
type UpsertPricingRulesCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewUpsertPricingRulesCommandHandler(uowFactory UoWFactory, clock ports.Clock) UpsertPricingRulesCommandHandler {
	return UpsertPricingRulesCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h UpsertPricingRulesCommandHandler) Handle(ctx context.Context, cmd UpsertPricingRulesCommand) ([]*pricing.Rule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(cmd.Actor(), "update pricing"); err != nil {
		return nil, err
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PricingRepository()
	saved := make([]*pricing.Rule, 0, len(cmd.Rules()))
	for _, in := range cmd.Rules() {
		category := strings.ToLower(strings.TrimSpace(in.Category))

		rule, err := repo.GetRuleByCategory(ctx, category)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			rule, err = pricing.NewRule(kernel.NewUUID(), category, in.UnitPrice, in.IsActive, in.Description, now)
		case err == nil:
			err = rule.Update(in.UnitPrice, in.IsActive, in.Description, now)
		}
		if err != nil {
			return nil, err
		}

		if err = repo.SaveRule(ctx, rule); err != nil {
			return nil, err
		}
		saved = append(saved, rule)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}
