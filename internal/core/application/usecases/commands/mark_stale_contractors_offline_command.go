package commands

import (
	"errors"
	"time"

	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrMarkStaleContractorsOfflineCommandIsNotConstructed = errors.New(
		"MarkStaleContractorsOfflineCommand must be created via NewMarkStaleContractorsOfflineCommand constructor",
	)
)

// MarkStaleContractorsOfflineCommand takes offline every online contractor
// whose last ping is older than staleAfter.
type MarkStaleContractorsOfflineCommand struct {
	staleAfter time.Duration

	guard guard.ConstructorGuard
}

func NewMarkStaleContractorsOfflineCommand(staleAfter time.Duration) (MarkStaleContractorsOfflineCommand, error) {
	if staleAfter <= 0 {
		return MarkStaleContractorsOfflineCommand{}, errs.NewValueIsOutOfRangeError("stale after", staleAfter, "0s", "unbounded")
	}
	return MarkStaleContractorsOfflineCommand{staleAfter: staleAfter, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkStaleContractorsOfflineCommand) Validate() error {
	return c.guard.Validate(ErrMarkStaleContractorsOfflineCommandIsNotConstructed)
}

func (c MarkStaleContractorsOfflineCommand) StaleAfter() time.Duration { return c.staleAfter }
