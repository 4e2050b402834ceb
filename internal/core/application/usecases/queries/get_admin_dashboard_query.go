package queries

import (
	"errors"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrGetAdminDashboardQueryIsNotConstructed = errors.New(
		"GetAdminDashboardQuery must be created via NewGetAdminDashboardQuery constructor",
	)
)

type GetAdminDashboardQuery struct {
	actor services.Actor

	guard guard.ConstructorGuard
}

func NewGetAdminDashboardQuery(actor services.Actor) (GetAdminDashboardQuery, error) {
	if err := validateActor(actor); err != nil {
		return GetAdminDashboardQuery{}, err
	}
	return GetAdminDashboardQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAdminDashboardQuery) Validate() error {
	return q.guard.Validate(ErrGetAdminDashboardQueryIsNotConstructed)
}

func (q GetAdminDashboardQuery) Actor() services.Actor { return q.actor }

// AdminDashboard holds the marketplace counters. Revenue and commission
// cover succeeded payments of the last 30 days.
type AdminDashboard struct {
	TotalJobs           int
	CompletedJobs       int
	PendingJobs         int
	ActiveJobs          int
	TotalUsers          int
	TotalContractors    int
	ApprovedContractors int
	OnlineContractors   int
	Revenue30d          kernel.Money
	Commission30d       kernel.Money
}
