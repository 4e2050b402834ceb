package commands

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrRouteJobToOperatorCommandIsNotConstructed = errors.New(
		"RouteJobToOperatorCommand must be created via NewRouteJobToOperatorCommand constructor",
	)
)

// RouteJobToOperatorCommand pre-routes a pending job to an operator's fleet.
type RouteJobToOperatorCommand struct {
	actor      services.Actor
	jobID      kernel.UUID
	operatorID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRouteJobToOperatorCommand(actor services.Actor, jobID, operatorID kernel.UUID) (RouteJobToOperatorCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate(), operatorID.Validate()); err != nil {
		return RouteJobToOperatorCommand{}, err
	}
	return RouteJobToOperatorCommand{
		actor:      actor,
		jobID:      jobID,
		operatorID: operatorID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RouteJobToOperatorCommand) Validate() error {
	return c.guard.Validate(ErrRouteJobToOperatorCommandIsNotConstructed)
}

func (c RouteJobToOperatorCommand) Actor() services.Actor   { return c.actor }
func (c RouteJobToOperatorCommand) JobID() kernel.UUID      { return c.jobID }
func (c RouteJobToOperatorCommand) OperatorID() kernel.UUID { return c.operatorID }
