package commands_test

import (
	"errors"
	"strings"
	"testing"

	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"
	"junkos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewPresignPhotoUploadCommand_Validation(t *testing.T) {
	_, err := commands.NewPresignPhotoUploadCommand(adminActor(), kernel.NewUUID(), "selfie", "image/jpeg")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = commands.NewPresignPhotoUploadCommand(adminActor(), kernel.NewUUID(), commands.PhotoBefore, "application/pdf")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPresignPhotoUploadCommandHandler_Handle(t *testing.T) {
	t.Run("customer gets an upload url", func(t *testing.T) {
		ctx := t.Context()
		customerID := kernel.NewUUID()
		j := newPendingJob(t, customerID)

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.jobs.On("Get", ctx, j.ID()).Return(j, nil).Once()
		storage := new(MockPhotoStorage)
		storage.On("PresignUpload", ctx,
			mock.MatchedBy(func(key string) bool {
				return strings.HasPrefix(key, "jobs/"+j.ID().String()+"/booking/") && strings.HasSuffix(key, ".png")
			}),
			"image/png", commands.PhotoUploadTTL,
		).Return("https://bucket.s3.amazonaws.com/put?sig=1", "https://bucket.s3.amazonaws.com/photo.png", nil).Once()

		cmd, err := commands.NewPresignPhotoUploadCommand(customerActor(customerID), j.ID(), commands.PhotoBooking, "IMAGE/PNG")
		require.NoError(t, err)

		res, err := commands.NewPresignPhotoUploadCommandHandler(u.factory, storage, fixedClock{testNow}).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "https://bucket.s3.amazonaws.com/photo.png", res.PublicURL)
		assert.Equal(t, testNow.Add(commands.PhotoUploadTTL), res.ExpiresAt)
		storage.AssertExpectations(t)
		u.assert(t)
	})

	t.Run("stranger is refused", func(t *testing.T) {
		ctx := t.Context()
		j := newPendingJob(t, kernel.NewUUID())

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.jobs.On("Get", ctx, j.ID()).Return(j, nil).Once()
		storage := new(MockPhotoStorage)

		cmd, err := commands.NewPresignPhotoUploadCommand(contractorActor(newApprovedContractor(t, false)), j.ID(),
			commands.PhotoBefore, "image/jpeg")
		require.NoError(t, err)

		_, err = commands.NewPresignPhotoUploadCommandHandler(u.factory, storage, fixedClock{testNow}).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		storage.AssertNotCalled(t, "PresignUpload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure is a gateway error", func(t *testing.T) {
		ctx := t.Context()
		j := newPendingJob(t, kernel.NewUUID())

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.jobs.On("Get", ctx, j.ID()).Return(j, nil).Once()
		storage := new(MockPhotoStorage)
		storage.On("PresignUpload", ctx, mock.Anything, "image/jpeg", commands.PhotoUploadTTL).
			Return("", "", errors.New("no credentials")).Once()

		cmd, err := commands.NewPresignPhotoUploadCommand(adminActor(), j.ID(), commands.PhotoAfter, "image/jpeg")
		require.NoError(t, err)

		_, err = commands.NewPresignPhotoUploadCommandHandler(u.factory, storage, fixedClock{testNow}).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrGateway)
	})
}

func TestMarkNotificationReadCommandHandler_Handle(t *testing.T) {
	owner := kernel.NewUUID()

	t.Run("addressee marks read", func(t *testing.T) {
		ctx := t.Context()
		n, err := notification.NewNotification(kernel.NewUUID(), owner, notification.TypeSystem, "Hi", "Welcome", nil, testNow)
		require.NoError(t, err)

		u := newTestUoW()
		u.expectTx(ctx)
		u.notifications.On("Get", ctx, n.ID()).Return(n, nil).Once()
		u.notifications.On("Update", ctx, n).Return(nil).Once()

		cmd, err := commands.NewMarkNotificationReadCommand(customerActor(owner), n.ID())
		require.NoError(t, err)

		require.NoError(t, commands.NewMarkNotificationReadCommandHandler(u.factory).Handle(ctx, cmd))
		assert.True(t, n.IsRead())
		u.assert(t)
	})

	t.Run("someone else's notification", func(t *testing.T) {
		ctx := t.Context()
		n, err := notification.NewNotification(kernel.NewUUID(), owner, notification.TypeSystem, "Hi", "Welcome", nil, testNow)
		require.NoError(t, err)

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.notifications.On("Get", ctx, n.ID()).Return(n, nil).Once()

		cmd, err := commands.NewMarkNotificationReadCommand(customerActor(kernel.NewUUID()), n.ID())
		require.NoError(t, err)

		err = commands.NewMarkNotificationReadCommandHandler(u.factory).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.False(t, n.IsRead())
	})
}
