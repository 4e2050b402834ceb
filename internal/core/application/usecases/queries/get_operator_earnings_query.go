package queries

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrGetOperatorEarningsQueryIsNotConstructed = errors.New(
		"GetOperatorEarningsQuery must be created via NewGetOperatorEarningsQuery constructor",
	)
)

// GetOperatorEarningsQuery sums the operator share of succeeded payments on
// jobs the operator's fleet completed.
type GetOperatorEarningsQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewGetOperatorEarningsQuery(actor services.Actor) (GetOperatorEarningsQuery, error) {
	if err := validateActor(actor); err != nil {
		return GetOperatorEarningsQuery{}, err
	}
	return GetOperatorEarningsQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOperatorEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetOperatorEarningsQueryIsNotConstructed)
}

func (q GetOperatorEarningsQuery) Actor() services.Actor { return q.actor }

type OperatorEarnings struct {
	Total         kernel.Money
	Last30d       kernel.Money
	Last7d        kernel.Money
	PerContractor []ContractorCommission
}

// ContractorCommission is what one fleet member earned the operator.
type ContractorCommission struct {
	ContractorID kernel.UUID
	Name         string
	Commission   kernel.Money
	Jobs         int
}
