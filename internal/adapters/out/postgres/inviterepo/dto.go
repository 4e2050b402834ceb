// Package inviterepo persists operator invites.
package inviterepo

import (
	"time"

	"junkos/internal/core/domain/model/invite"
	"junkos/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type InviteDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OperatorID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Code       string     `gorm:"type:varchar(16);not null;uniqueIndex"`
	Email      string     `gorm:"type:varchar(255)"`
	MaxUses    int        `gorm:"not null;default:1"`
	UseCount   int        `gorm:"not null;default:0"`
	ExpiresAt  *time.Time `gorm:"index"`
	IsActive   bool       `gorm:"not null;default:true;index"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime:false"`
}

func (InviteDTO) TableName() string {
	return "operator_invites"
}

func fromDomain(i *invite.Invite) InviteDTO {
	return InviteDTO{
		ID:         i.ID().Bytes(),
		OperatorID: i.OperatorID().Bytes(),
		Code:       i.Code(),
		Email:      i.Email(),
		MaxUses:    i.MaxUses(),
		UseCount:   i.UseCount(),
		ExpiresAt:  i.ExpiresAt(),
		IsActive:   i.IsActive(),
		CreatedAt:  i.CreatedAt(),
	}
}

func toDomain(dto InviteDTO) (*invite.Invite, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	operatorID, err := kernel.UUIDFromGoogle(dto.OperatorID)
	if err != nil {
		return nil, err
	}

	return invite.RestoreInvite(invite.RestoreParams{
		ID:         id,
		OperatorID: operatorID,
		Code:       dto.Code,
		Email:      dto.Email,
		MaxUses:    dto.MaxUses,
		UseCount:   dto.UseCount,
		ExpiresAt:  dto.ExpiresAt,
		IsActive:   dto.IsActive,
		CreatedAt:  dto.CreatedAt,
	}), nil
}
