package commands

import (
	"context"
	"fmt"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"
)

// PhotoUploadTTL is the lifetime of an upload URL.
const PhotoUploadTTL = 15 * time.Minute

// PhotoUpload is where the client PUTs the photo and the URL it will have
// once uploaded; the latter is what a transition or booking carries.
type PhotoUpload struct {
	UploadURL string
	PublicURL string
	ExpiresAt time.Time
}

// PresignPhotoUploadCommandHandler issues upload URLs to the job's customer,
// its driver and admins.
type PresignPhotoUploadCommandHandler struct {
	uowFactory UoWFactory
	storage    ports.PhotoStorage
	clock      ports.Clock
}

func NewPresignPhotoUploadCommandHandler(
	uowFactory UoWFactory,
	storage ports.PhotoStorage,
	clock ports.Clock,
) PresignPhotoUploadCommandHandler {
	return PresignPhotoUploadCommandHandler{uowFactory: uowFactory, storage: storage, clock: clock}
}

func (h PresignPhotoUploadCommandHandler) Handle(ctx context.Context, cmd PresignPhotoUploadCommand) (PhotoUpload, error) {
	if err := cmd.Validate(); err != nil {
		return PhotoUpload{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PhotoUpload{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	j, err := uow.JobRepository().Get(ctx, cmd.JobID())
	if err != nil {
		return PhotoUpload{}, err
	}
	actor := cmd.Actor()
	allowed := actor.IsAdmin() ||
		j.CustomerID().IsEqual(actor.UserID) ||
		(actor.ContractorID != nil && j.IsHeldBy(*actor.ContractorID))
	if !allowed {
		return PhotoUpload{}, errs.NewForbiddenError("upload photo", "not a party to this job")
	}

	key := fmt.Sprintf("jobs/%s/%s/%s.%s", j.ID(), cmd.Kind(), kernel.NewUUID(), photoExtensions[cmd.ContentType()])
	uploadURL, publicURL, err := h.storage.PresignUpload(ctx, key, cmd.ContentType(), PhotoUploadTTL)
	if err != nil {
		return PhotoUpload{}, errs.NewGatewayError("photo storage", err)
	}

	return PhotoUpload{
		UploadURL: uploadURL,
		PublicURL: publicURL,
		ExpiresAt: h.clock.Now().Add(PhotoUploadTTL),
	}, nil
}
