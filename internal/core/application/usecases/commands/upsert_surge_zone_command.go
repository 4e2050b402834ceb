package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrUpsertSurgeZoneCommandIsNotConstructed = errors.New(
		"UpsertSurgeZoneCommand must be created via NewUpsertSurgeZoneCommand constructor",
	)
)

// UpsertSurgeZoneCommand creates a surge zone, or replaces the zone with the
// given id. The zone itself is validated by the pricing model.
type UpsertSurgeZoneCommand struct {
	actor  services.Actor
	zoneID *kernel.UUID
	params pricing.SurgeZoneParams

	guard guard.ConstructorGuard
}

func NewUpsertSurgeZoneCommand(
	actor services.Actor,
	zoneID *kernel.UUID,
	params pricing.SurgeZoneParams,
) (UpsertSurgeZoneCommand, error) {
	if err := validateActor(actor); err != nil {
		return UpsertSurgeZoneCommand{}, err
	}
	if zoneID != nil {
		if err := zoneID.Validate(); err != nil {
			return UpsertSurgeZoneCommand{}, err
		}
	}
	return UpsertSurgeZoneCommand{actor: actor, zoneID: zoneID, params: params, guard: guard.NewConstructorGuard()}, nil
}

func (c UpsertSurgeZoneCommand) Validate() error {
	return c.guard.Validate(ErrUpsertSurgeZoneCommandIsNotConstructed)
}

func (c UpsertSurgeZoneCommand) Actor() services.Actor           { return c.actor }
func (c UpsertSurgeZoneCommand) ZoneID() *kernel.UUID            { return c.zoneID }
func (c UpsertSurgeZoneCommand) Params() pricing.SurgeZoneParams { return c.params }
