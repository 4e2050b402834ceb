package commands_test

import (
	"errors"
	"testing"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateContractorLocationCommandHandler_Handle(t *testing.T) {
	point, err := kernel.NewGeoPoint(26.71, -80.06)
	require.NoError(t, err)

	t.Run("throttled ping touches nothing", func(t *testing.T) {
		ctx := t.Context()
		c := newApprovedContractor(t, false)
		kv := new(MockKVStore)
		kv.On("SetNX", ctx, "location:throttle:"+c.ID().String(), "1", commands.DefaultLocationPingInterval).
			Return(false, nil).Once()
		factory := new(MockUoWFactory)

		cmd, err := commands.NewUpdateContractorLocationCommand(contractorActor(c), point)
		require.NoError(t, err)

		res, err := commands.NewUpdateContractorLocationCommandHandler(factory, new(MockFlusher), kv, 0, fixedClock{testNow}).
			Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, res.Throttled)
		kv.AssertExpectations(t)
		factory.AssertNotCalled(t, "Create")
	})

	t.Run("broadcasts to the active job", func(t *testing.T) {
		ctx := t.Context()
		c := newApprovedContractor(t, false)
		j := newPendingJob(t, kernel.NewUUID())

		kv := new(MockKVStore)
		kv.On("SetNX", ctx, mock.Anything, "1", commands.DefaultLocationPingInterval).Return(true, nil).Once()
		u := newTestUoW()
		u.expectTx(ctx)
		u.contractors.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
		u.contractors.On("Update", ctx, c).Return(nil).Once()
		u.jobs.On("FindActiveByDriver", ctx, c.ID()).Return(j, nil).Once()
		flusher := new(MockFlusher)
		flusher.On("Flush", ctx, mock.Anything).Return().Once()

		cmd, err := commands.NewUpdateContractorLocationCommand(contractorActor(c), point)
		require.NoError(t, err)

		res, err := commands.NewUpdateContractorLocationCommandHandler(u.factory, flusher, kv, 0, fixedClock{testNow}).
			Handle(ctx, cmd)

		require.NoError(t, err)
		assert.False(t, res.Throttled)
		require.NotNil(t, c.Location())
		assert.InDelta(t, 26.71, c.Location().Lat(), 1e-9)
		assert.Equal(t, testNow, *c.LastSeenAt())
		u.assert(t)
		assert.Equal(t, []string{
			dispatch.JobRoom(j.ID()) + " " + dispatch.EventDriverLocation,
			dispatch.AdminRoom + " " + dispatch.EventAdminLocation,
		}, eventsOf(batchOf(flusher)))
	})

	t.Run("kv outage lets the ping through", func(t *testing.T) {
		ctx := t.Context()
		c := newApprovedContractor(t, false)

		kv := new(MockKVStore)
		kv.On("SetNX", ctx, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()
		u := newTestUoW()
		u.expectTx(ctx)
		u.contractors.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
		u.contractors.On("Update", ctx, c).Return(nil).Once()
		u.jobs.On("FindActiveByDriver", ctx, c.ID()).Return((*job.Job)(nil), nil).Once()
		flusher := new(MockFlusher)
		flusher.On("Flush", ctx, mock.Anything).Return().Once()

		cmd, err := commands.NewUpdateContractorLocationCommand(contractorActor(c), point)
		require.NoError(t, err)

		res, err := commands.NewUpdateContractorLocationCommandHandler(u.factory, flusher, kv, 0, fixedClock{testNow}).
			Handle(ctx, cmd)

		require.NoError(t, err)
		assert.False(t, res.Throttled)
		u.assert(t)
		assert.Equal(t, []string{dispatch.AdminRoom + " " + dispatch.EventAdminLocation}, eventsOf(batchOf(flusher)))
	})
}

func TestSetAvailabilityCommandHandler_Handle(t *testing.T) {
	t.Run("approved contractor goes online", func(t *testing.T) {
		ctx := t.Context()
		c := newApprovedContractor(t, false)

		u := newTestUoW()
		u.expectTx(ctx)
		u.contractors.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
		u.contractors.On("Update", ctx, c).Return(nil).Once()

		cmd, err := commands.NewSetAvailabilityCommand(contractorActor(c), true)
		require.NoError(t, err)

		got, err := commands.NewSetAvailabilityCommandHandler(u.factory, fixedClock{testNow}).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, got.IsOnline())
		u.assert(t)
	})

	t.Run("suspended contractor stays offline", func(t *testing.T) {
		ctx := t.Context()
		c := newApprovedContractor(t, false)
		c.Suspend(testNow)

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.contractors.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()

		cmd, err := commands.NewSetAvailabilityCommand(contractorActor(c), true)
		require.NoError(t, err)

		_, err = commands.NewSetAvailabilityCommandHandler(u.factory, fixedClock{testNow}).Handle(ctx, cmd)

		require.Error(t, err)
		assert.False(t, c.IsOnline())
		u.contractors.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
