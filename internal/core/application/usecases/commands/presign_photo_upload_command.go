package commands

import (
	"errors"
	"strings"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"
	"junkos/internal/pkg/guard"
)

var (
	ErrPresignPhotoUploadCommandIsNotConstructed = errors.New(
		"PresignPhotoUploadCommand must be created via NewPresignPhotoUploadCommand constructor",
	)
)

// PhotoKind is where on the job a photo belongs.
type PhotoKind string

const (
	PhotoBooking PhotoKind = "booking"
	PhotoBefore  PhotoKind = "before"
	PhotoAfter   PhotoKind = "after"
)

var photoExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/heic": "heic",
	"image/webp": "webp",
}

// PresignPhotoUploadCommand asks for a direct upload URL for a job photo.
type PresignPhotoUploadCommand struct {
	actor       services.Actor
	jobID       kernel.UUID
	kind        PhotoKind
	contentType string

	guard guard.ConstructorGuard
}

func NewPresignPhotoUploadCommand(
	actor services.Actor,
	jobID kernel.UUID,
	kind PhotoKind,
	contentType string,
) (PresignPhotoUploadCommand, error) {
	if err := errors.Join(validateActor(actor), jobID.Validate()); err != nil {
		return PresignPhotoUploadCommand{}, err
	}
	switch kind {
	case PhotoBooking, PhotoBefore, PhotoAfter:
	default:
		return PresignPhotoUploadCommand{}, errs.NewValueIsInvalidError("photo kind")
	}
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := photoExtensions[ct]; !ok {
		return PresignPhotoUploadCommand{}, errs.NewValueIsInvalidError("content type")
	}
	return PresignPhotoUploadCommand{
		actor:       actor,
		jobID:       jobID,
		kind:        kind,
		contentType: ct,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c PresignPhotoUploadCommand) Validate() error {
	return c.guard.Validate(ErrPresignPhotoUploadCommandIsNotConstructed)
}

func (c PresignPhotoUploadCommand) Actor() services.Actor { return c.actor }
func (c PresignPhotoUploadCommand) JobID() kernel.UUID    { return c.jobID }
func (c PresignPhotoUploadCommand) Kind() PhotoKind       { return c.kind }
func (c PresignPhotoUploadCommand) ContentType() string   { return c.contentType }
