package queries

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrGetOperatorDashboardQueryIsNotConstructed = errors.New(
		"GetOperatorDashboardQuery must be created via NewGetOperatorDashboardQuery constructor",
	)
)

type GetOperatorDashboardQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewGetOperatorDashboardQuery(actor services.Actor) (GetOperatorDashboardQuery, error) {
	if err := validateActor(actor); err != nil {
		return GetOperatorDashboardQuery{}, err
	}
	return GetOperatorDashboardQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOperatorDashboardQuery) Validate() error {
	return q.guard.Validate(ErrGetOperatorDashboardQueryIsNotConstructed)
}

func (q GetOperatorDashboardQuery) Actor() services.Actor { return q.actor }

// OperatorDashboard counts the fleet and the operator's commission of the
// last 30 days.
type OperatorDashboard struct {
	FleetSize         int
	OnlineCount       int
	PendingDelegation int
	Earnings30d       kernel.Money
}
