package commands

import (
	"context"

	"junkos/internal/core/ports"
)

// MarkStaleContractorsOfflineCommandHandler keeps job offers away from
// devices that stopped reporting. It returns how many contractors it took
// offline.
type MarkStaleContractorsOfflineCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewMarkStaleContractorsOfflineCommandHandler(uowFactory UoWFactory, clock ports.Clock) MarkStaleContractorsOfflineCommandHandler {
	return MarkStaleContractorsOfflineCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h MarkStaleContractorsOfflineCommandHandler) Handle(ctx context.Context, cmd MarkStaleContractorsOfflineCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	now := h.clock.Now()
	cutoff := now.Add(-cmd.StaleAfter())

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ContractorRepository()
	stale, err := repo.ListOnlineNotSeenSince(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, candidate := range stale {
		// A ping may have landed since the listing; judge the locked row.
		c, getErr := repo.GetForUpdate(ctx, candidate.ID())
		if getErr != nil {
			return 0, getErr
		}
		if !c.IsStale(cutoff) {
			continue
		}
		if err = c.SetAvailability(false, now); err != nil {
			return 0, err
		}
		if err = repo.Update(ctx, c); err != nil {
			return 0, err
		}
		count++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}
