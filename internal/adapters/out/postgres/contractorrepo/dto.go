// Package contractorrepo persists the Contractor aggregate.
package contractorrepo

import (
	"time"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ContractorDTO is the contractors row. Location is stored as two nullable
// columns so the available-jobs query can compute distances in SQL.
type ContractorDTO struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID                 uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	ApprovalStatus         string     `gorm:"type:varchar(20);not null;index"`
	IsOnline               bool       `gorm:"not null;default:false;index"`
	Lat                    *float64   `gorm:"type:double precision"`
	Lng                    *float64   `gorm:"type:double precision"`
	LastSeenAt             *time.Time `gorm:"index"`
	Rating                 float64    `gorm:"type:double precision;not null;default:0"`
	TotalJobs              int        `gorm:"not null;default:0"`
	TruckType              string     `gorm:"type:varchar(100)"`
	ConnectAccountID       string     `gorm:"type:varchar(255)"`
	IsOperator             bool       `gorm:"not null;default:false"`
	OperatorID             *uuid.UUID `gorm:"type:uuid;index"`
	OperatorCommissionRate float64    `gorm:"type:double precision;not null"`
	CreatedAt              time.Time  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt              time.Time  `gorm:"not null;autoUpdateTime:false"`
}

func (ContractorDTO) TableName() string {
	return "contractors"
}

func fromDomain(c *contractor.Contractor) ContractorDTO {
	lat, lng := kernel.Coordinates(c.Location())
	return ContractorDTO{
		ID:                     c.ID().Bytes(),
		UserID:                 c.UserID().Bytes(),
		ApprovalStatus:         c.ApprovalStatus().String(),
		IsOnline:               c.IsOnline(),
		Lat:                    lat,
		Lng:                    lng,
		LastSeenAt:             c.LastSeenAt(),
		Rating:                 c.Rating(),
		TotalJobs:              c.TotalJobs(),
		TruckType:              c.TruckType(),
		ConnectAccountID:       c.ConnectAccountID(),
		IsOperator:             c.IsOperator(),
		OperatorID:             kernel.OptionalBytes(c.OperatorID()),
		OperatorCommissionRate: c.OperatorCommissionRate(),
		CreatedAt:              c.CreatedAt(),
		UpdatedAt:              c.UpdatedAt(),
	}
}

func toDomain(dto ContractorDTO) (*contractor.Contractor, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromGoogle(dto.UserID)
	if err != nil {
		return nil, err
	}
	operatorID, err := kernel.OptionalUUIDFromGoogle(dto.OperatorID)
	if err != nil {
		return nil, err
	}
	status, err := contractor.ParseApprovalStatus(dto.ApprovalStatus)
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewOptionalGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}

	return contractor.RestoreContractor(contractor.RestoreParams{
		ID:                     id,
		UserID:                 userID,
		ApprovalStatus:         status,
		IsOnline:               dto.IsOnline,
		Location:               location,
		LastSeenAt:             dto.LastSeenAt,
		Rating:                 dto.Rating,
		TotalJobs:              dto.TotalJobs,
		TruckType:              dto.TruckType,
		ConnectAccountID:       dto.ConnectAccountID,
		IsOperator:             dto.IsOperator,
		OperatorID:             operatorID,
		OperatorCommissionRate: dto.OperatorCommissionRate,
		CreatedAt:              dto.CreatedAt,
		UpdatedAt:              dto.UpdatedAt,
	})
}
