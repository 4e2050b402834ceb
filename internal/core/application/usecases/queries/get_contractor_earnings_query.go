package queries

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrGetContractorEarningsQueryIsNotConstructed = errors.New(
		"GetContractorEarningsQuery must be created via NewGetContractorEarningsQuery constructor",
	)
)

// GetContractorEarningsQuery sums the driver payouts of the calling
// contractor's succeeded payments.
type GetContractorEarningsQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewGetContractorEarningsQuery(actor services.Actor) (GetContractorEarningsQuery, error) {
	if err := validateActor(actor); err != nil {
		return GetContractorEarningsQuery{}, err
	}
	return GetContractorEarningsQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetContractorEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetContractorEarningsQueryIsNotConstructed)
}

func (q GetContractorEarningsQuery) Actor() services.Actor { return q.actor }

type ContractorEarnings struct {
	TotalEarnings kernel.Money
	TotalTips     kernel.Money
	Last30d       kernel.Money
	Last7d        kernel.Money
	// PendingPayout is earned but not yet transferred.
	PendingPayout kernel.Money
	TotalJobs     int
}
