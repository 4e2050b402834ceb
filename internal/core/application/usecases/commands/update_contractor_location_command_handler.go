package commands

import (
	"context"
	"time"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/ports"
)

// DefaultLocationPingInterval is the minimum spacing of accepted pings.
const DefaultLocationPingInterval = 3 * time.Second

// UpdateContractorLocationResult reports whether the ping was dropped by the
// throttle.
type UpdateContractorLocationResult struct {
	Throttled bool
}

// UpdateContractorLocationCommandHandler stores a contractor's position and
// re-broadcasts it to the room of the job they are working and to the admin
// map. Pings closer together than the interval are dropped silently; the
// throttle lives in the shared KV store so it holds across instances.
type UpdateContractorLocationCommandHandler struct {
	uowFactory UoWFactory
	flusher    EventFlusher
	kv         ports.KVStore
	interval   time.Duration
	clock      ports.Clock
}

func NewUpdateContractorLocationCommandHandler(
	uowFactory UoWFactory,
	flusher EventFlusher,
	kv ports.KVStore,
	interval time.Duration,
	clock ports.Clock,
) UpdateContractorLocationCommandHandler {
	if interval <= 0 {
		interval = DefaultLocationPingInterval
	}
	return UpdateContractorLocationCommandHandler{
		uowFactory: uowFactory,
		flusher:    flusher,
		kv:         kv,
		interval:   interval,
		clock:      clock,
	}
}

func (h UpdateContractorLocationCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateContractorLocationCommand,
) (UpdateContractorLocationResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateContractorLocationResult{}, err
	}
	contractorID, err := requireContractor(cmd.Actor(), "update location")
	if err != nil {
		return UpdateContractorLocationResult{}, err
	}

	// A KV outage lets the ping through rather than losing positions.
	if ok, kvErr := h.kv.SetNX(ctx, "location:throttle:"+contractorID.String(), "1", h.interval); kvErr == nil && !ok {
		return UpdateContractorLocationResult{Throttled: true}, nil
	}
	now := h.clock.Now()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return UpdateContractorLocationResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	contractorRepo := uow.ContractorRepository()
	c, err := contractorRepo.GetForUpdate(ctx, contractorID)
	if err != nil {
		return UpdateContractorLocationResult{}, err
	}
	if err = c.UpdateLocation(cmd.Location(), now); err != nil {
		return UpdateContractorLocationResult{}, err
	}
	if err = contractorRepo.Update(ctx, c); err != nil {
		return UpdateContractorLocationResult{}, err
	}

	active, err := uow.JobRepository().FindActiveByDriver(ctx, c.ID())
	if err != nil {
		return UpdateContractorLocationResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateContractorLocationResult{}, err
	}

	var activeJob *kernel.UUID
	if active != nil {
		id := active.ID()
		activeJob = &id
	}

	batch := dispatch.NewBatch()
	batch.DriverLocation(c.ID(), cmd.Location().Lat(), cmd.Location().Lng(), activeJob)
	h.flusher.Flush(ctx, batch)

	return UpdateContractorLocationResult{}, nil
}
