package queries

import (
	"context"

	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
)

// EstimatePriceQueryHandler runs the pricing engine against the current
// rules and surge zones. It reads through a unit of work without opening a
// transaction, the same repositories a booking prices with.
type EstimatePriceQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	engine     services.PricingEngine
	clock      ports.Clock
}

func NewEstimatePriceQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	engine services.PricingEngine,
	clock ports.Clock,
) EstimatePriceQueryHandler {
	return EstimatePriceQueryHandler{uowFactory: uowFactory, engine: engine, clock: clock}
}

func (h EstimatePriceQueryHandler) Handle(ctx context.Context, query EstimatePriceQuery) (services.Estimate, error) {
	if err := query.Validate(); err != nil {
		return services.Estimate{}, err
	}

	pricingRepo := h.uowFactory.Create().PricingRepository()
	rules, err := pricingRepo.ListRules(ctx)
	if err != nil {
		return services.Estimate{}, err
	}
	zones, err := pricingRepo.ListSurgeZones(ctx)
	if err != nil {
		return services.Estimate{}, err
	}
	return h.engine.Estimate(query.Items(), query.Location(), rules, zones, h.clock.Now())
}
