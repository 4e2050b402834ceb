package commands

import (
	"context"
	"errors"
	"time"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"

	"go.uber.org/zap"
)

// ProcessedEventTTL is how long a delivered event id is remembered.
const ProcessedEventTTL = 72 * time.Hour

// ProviderEventResult tells the webhook endpoint what happened to a delivery.
// Every outcome is acknowledged to the provider.
type ProviderEventResult struct {
	EventID   string
	Kind      ports.ProviderEventKind
	Duplicate bool
	Applied   bool
}

// HandleProviderEventCommandHandler verifies and applies payment provider
// events. Deliveries are deduplicated by event id in the KV store and by
// payment state, so a replay never notifies twice. Events for unknown
// intents and transitions a payment cannot take any more are logged and
// acknowledged.
type HandleProviderEventCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	gateway    ports.PaymentGateway
	kv         ports.KVStore
	effects    paymentEffects
	clock      ports.Clock
	logger     *zap.Logger
}

func NewHandleProviderEventCommandHandler(
	uowFactory UoWFactory,
	flusher EventFlusher,
	gateway ports.PaymentGateway,
	kv ports.KVStore,
	clock ports.Clock,
	logger *zap.Logger,
) HandleProviderEventCommandHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return HandleProviderEventCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		gateway:    gateway,
		kv:         kv,
		effects:    paymentEffects{planner: services.NewNotificationPlanner()},
		clock:      clock,
		logger:     logger.With(zap.String("component", "provider-events")),
	}
}

func (h HandleProviderEventCommandHandler) Handle(
	ctx context.Context,
	cmd HandleProviderEventCommand,
) (ProviderEventResult, error) {
	if err := cmd.Validate(); err != nil {
		return ProviderEventResult{}, err
	}

	ev, err := h.gateway.ParseEvent(cmd.Payload(), cmd.Signature())
	if err != nil {
		return ProviderEventResult{}, errs.NewValueIsInvalidErrorWithCause("webhook signature", err)
	}
	result := ProviderEventResult{EventID: ev.ID, Kind: ev.Kind}
	if ev.Kind == ports.EventIgnored {
		return result, nil
	}

	key := "webhook:event:" + ev.ID
	fresh, err := h.kv.SetNX(ctx, key, h.clock.Now().Format(time.RFC3339), ProcessedEventTTL)
	if err != nil {
		return result, err
	}
	if !fresh {
		h.logger.Info("duplicate provider event", zap.String("event_id", ev.ID))
		result.Duplicate = true
		return result, nil
	}

	applied, err := h.apply(ctx, ev)
	if err != nil {
		// Forget the event so the provider's retry gets processed.
		if delErr := h.kv.Delete(ctx, key); delErr != nil {
			h.logger.Warn("failed to release event id", zap.String("event_id", ev.ID), zap.Error(delErr))
		}
		return result, err
	}
	result.Applied = applied
	return result, nil
}

func (h HandleProviderEventCommandHandler) apply(ctx context.Context, ev ports.ProviderEvent) (bool, error) {
	now := h.clock.Now()
	log := h.logger.With(zap.String("event_id", ev.ID), zap.String("kind", string(ev.Kind)),
		zap.String("intent_id", ev.IntentID))

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	p, err := uow.PaymentRepository().GetByIntentID(ctx, ev.IntentID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		log.Warn("provider event for unknown intent")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	batch := dispatch.NewBatch()
	var changed bool
	switch ev.Kind { //nolint:exhaustive
	case ports.EventPaymentSucceeded:
		changed, err = h.effects.succeeded(ctx, uow, p, now, batch)
	case ports.EventPaymentFailed:
		changed, err = h.effects.failed(ctx, uow, p, now)
	case ports.EventChargeRefunded:
		changed, err = h.effects.refunded(ctx, uow, p, ev.AmountRefunded, now)
	case ports.EventDisputeCreated:
		changed, err = h.effects.disputed(ctx, uow, p, now)
		if err == nil {
			log.Warn("payment disputed", zap.String("payment_id", p.ID().String()))
		}
	default:
		log.Info("provider event ignored")
		return false, nil
	}
	if errors.Is(err, errs.ErrConflict) {
		log.Warn("provider event does not apply to payment", zap.String("status", p.Status().String()), zap.Error(err))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	h.flusher.Flush(ctx, batch)

	return true, nil
}
