// Package jobrepo persists the Job aggregate. Line items are stored as a jsonb
// document so that fields the core does not model survive a round trip.
package jobrepo

import (
	"time"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// JobDTO is the jobs row.
type JobDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID   *uuid.UUID `gorm:"type:uuid;index"`
	OperatorID *uuid.UUID `gorm:"type:uuid;index"`
	Status     string     `gorm:"type:varchar(20);not null;index"`

	Address string   `gorm:"type:text;not null"`
	Lat     *float64 `gorm:"type:double precision"`
	Lng     *float64 `gorm:"type:double precision"`
	Items   pgutil.JSON
	Notes   string `gorm:"type:text"`

	Photos       pq.StringArray `gorm:"type:text[]"`
	BeforePhotos pq.StringArray `gorm:"type:text[]"`
	AfterPhotos  pq.StringArray `gorm:"type:text[]"`

	ScheduledAt *time.Time
	DelegatedAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	BasePrice        int64   `gorm:"type:bigint;not null"`
	ItemTotal        int64   `gorm:"type:bigint;not null"`
	VolumeAdjustment int64   `gorm:"type:bigint;not null"`
	SurgeMultiplier  float64 `gorm:"type:numeric(4,2);not null;default:1"`
	ServiceFee       int64   `gorm:"type:bigint;not null"`
	TotalPrice       int64   `gorm:"type:bigint;not null"`

	CreatedAt time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (JobDTO) TableName() string {
	return "jobs"
}

func fromDomain(j *job.Job) (JobDTO, error) {
	items, err := pgutil.MarshalJSON(j.Items())
	if err != nil {
		return JobDTO{}, err
	}
	lat, lng := kernel.Coordinates(j.Location())
	price := j.Price()

	return JobDTO{
		ID:               j.ID().Bytes(),
		CustomerID:       j.CustomerID().Bytes(),
		DriverID:         kernel.OptionalBytes(j.DriverID()),
		OperatorID:       kernel.OptionalBytes(j.OperatorID()),
		Status:           j.Status().String(),
		Address:          j.Address(),
		Lat:              lat,
		Lng:              lng,
		Items:            items,
		Notes:            j.Notes(),
		Photos:           j.Photos(),
		BeforePhotos:     j.BeforePhotos(),
		AfterPhotos:      j.AfterPhotos(),
		ScheduledAt:      j.ScheduledAt(),
		DelegatedAt:      j.DelegatedAt(),
		StartedAt:        j.StartedAt(),
		CompletedAt:      j.CompletedAt(),
		BasePrice:        price.BasePrice().Cents(),
		ItemTotal:        price.ItemTotal().Cents(),
		VolumeAdjustment: price.VolumeAdjustment().Cents(),
		SurgeMultiplier:  price.SurgeMultiplier(),
		ServiceFee:       price.ServiceFee().Cents(),
		TotalPrice:       price.Total().Cents(),
		CreatedAt:        j.CreatedAt(),
		UpdatedAt:        j.UpdatedAt(),
	}, nil
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromGoogle(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.OptionalUUIDFromGoogle(dto.DriverID)
	if err != nil {
		return nil, err
	}
	operatorID, err := kernel.OptionalUUIDFromGoogle(dto.OperatorID)
	if err != nil {
		return nil, err
	}
	status, err := job.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewOptionalGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	var items []job.LineItem
	if err = dto.Items.Unmarshal(&items); err != nil {
		return nil, err
	}

	surge := dto.SurgeMultiplier
	if surge < 1 {
		surge = 1
	}

	return job.RestoreJob(job.RestoreParams{
		NewJobParams: job.NewJobParams{
			ID:          id,
			CustomerID:  customerID,
			Address:     dto.Address,
			Location:    location,
			Items:       items,
			Photos:      dto.Photos,
			ScheduledAt: dto.ScheduledAt,
			Notes:       dto.Notes,
			Price: job.RestorePriceBreakdown(
				kernel.Money(dto.BasePrice),
				kernel.Money(dto.ItemTotal),
				kernel.Money(dto.VolumeAdjustment),
				surge,
				kernel.Money(dto.ServiceFee),
			),
		},
		DriverID:     driverID,
		OperatorID:   operatorID,
		Status:       status,
		BeforePhotos: dto.BeforePhotos,
		AfterPhotos:  dto.AfterPhotos,
		DelegatedAt:  dto.DelegatedAt,
		StartedAt:    dto.StartedAt,
		CompletedAt:  dto.CompletedAt,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
	})
}
