package commands

import (
	"context"
	"errors"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

var ErrActorIsRequired = errs.NewValueIsRequiredError("actor")

// persistDrafts builds and stores notifications inside the running unit of work.
func persistDrafts(ctx context.Context, repo ports.NotificationRepository, now time.Time, drafts ...services.Draft) error {
	if len(drafts) == 0 {
		return nil
	}

	built := make([]*notification.Notification, 0, len(drafts))
	for _, d := range drafts {
		n, err := d.Build(now)
		if err != nil {
			return err
		}
		built = append(built, n)
	}
	return repo.Add(ctx, built...)
}

func validateActor(actor services.Actor) error {
	if err := actor.UserID.Validate(); err != nil {
		return errors.Join(ErrActorIsRequired, err)
	}
	return nil
}

func requireAdmin(actor services.Actor, action string) error {
	if !actor.IsAdmin() {
		return errs.NewForbiddenError(action, "admin role required")
	}
	return nil
}

// requireContractor returns the contractor id of the actor.
func requireContractor(actor services.Actor, action string) (kernel.UUID, error) {
	if actor.ContractorID == nil {
		return kernel.UUID{}, errs.NewForbiddenError(action, "contractor profile required")
	}
	return *actor.ContractorID, nil
}
