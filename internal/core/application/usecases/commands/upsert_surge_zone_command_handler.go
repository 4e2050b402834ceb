package commands

import (
	"context"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/core/ports"
)

type UpsertSurgeZoneCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewUpsertSurgeZoneCommandHandler(uowFactory UoWFactory, clock ports.Clock) UpsertSurgeZoneCommandHandler {
	return UpsertSurgeZoneCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h UpsertSurgeZoneCommandHandler) Handle(ctx context.Context, cmd UpsertSurgeZoneCommand) (*pricing.SurgeZone, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := requireAdmin(cmd.Actor(), "update surge zones"); err != nil {
		return nil, err
	}

	params := cmd.Params()
	params.UpdatedAt = h.clock.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PricingRepository()

	var (
		zone *pricing.SurgeZone
		err  error
	)
	if id := cmd.ZoneID(); id != nil {
		if zone, err = repo.GetSurgeZone(ctx, *id); err != nil {
			return nil, err
		}
		err = zone.Update(params)
	} else {
		params.ID = kernel.NewUUID()
		zone, err = pricing.NewSurgeZone(params)
	}
	if err != nil {
		return nil, err
	}

	if err = repo.SaveSurgeZone(ctx, zone); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return zone, nil
}
