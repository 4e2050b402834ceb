package commands

import (
	"context"
	"time"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/services"
)

// paymentEffects applies a provider outcome to a payment and records the
// notifications that go with it. Each method reports changed=false when the
// payment already was in the target state.
type paymentEffects struct {
	planner services.NotificationPlanner
}

func (e paymentEffects) succeeded(ctx context.Context, uow UoW, p *payment.Payment, now time.Time, batch *dispatch.Batch) (bool, error) {
	changed, err := p.MarkSucceeded(now)
	if err != nil || !changed {
		return false, err
	}
	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return false, err
	}

	j, err := uow.JobRepository().Get(ctx, p.JobID())
	if err != nil {
		return false, err
	}
	if j.DriverID() != nil {
		driver, getErr := uow.ContractorRepository().Get(ctx, *j.DriverID())
		if getErr != nil {
			return false, getErr
		}
		if err = persistDrafts(ctx, uow.NotificationRepository(), now,
			e.planner.PaymentConfirmed(j, p, driver.UserID())); err != nil {
			return false, err
		}
	}

	customer, err := uow.UserRepository().Get(ctx, j.CustomerID())
	if err != nil {
		return false, err
	}
	subject, html, err := dispatch.ConfirmationEmail(customer.Name(), j, p.Amount())
	if err != nil {
		return false, err
	}
	batch.Mail(customer.Email(), subject, html)
	return true, nil
}

func (e paymentEffects) failed(ctx context.Context, uow UoW, p *payment.Payment, now time.Time) (bool, error) {
	changed, err := p.MarkFailed(now)
	if err != nil || !changed {
		return false, err
	}
	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return false, err
	}

	j, err := uow.JobRepository().Get(ctx, p.JobID())
	if err != nil {
		return false, err
	}
	return true, persistDrafts(ctx, uow.NotificationRepository(), now, e.planner.PaymentFailed(j, p))
}

func (e paymentEffects) refunded(
	ctx context.Context,
	uow UoW,
	p *payment.Payment,
	amount kernel.Money,
	now time.Time,
) (bool, error) {
	changed, err := p.MarkRefunded(amount, now)
	if err != nil || !changed {
		return false, err
	}
	if err = uow.PaymentRepository().Update(ctx, p); err != nil {
		return false, err
	}

	j, err := uow.JobRepository().Get(ctx, p.JobID())
	if err != nil {
		return false, err
	}
	return true, persistDrafts(ctx, uow.NotificationRepository(), now, e.planner.RefundProcessed(j, amount))
}

func (e paymentEffects) disputed(ctx context.Context, uow UoW, p *payment.Payment, now time.Time) (bool, error) {
	changed, err := p.MarkDisputed(now)
	if err != nil || !changed {
		return false, err
	}
	return true, uow.PaymentRepository().Update(ctx, p)
}
