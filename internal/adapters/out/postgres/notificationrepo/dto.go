// Package notificationrepo persists user notifications.
package notificationrepo

import (
	"time"

	"junkos/internal/adapters/out/postgres/pgutil"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

type NotificationDTO struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1"`
	Type      string      `gorm:"type:varchar(30);not null"`
	Title     string      `gorm:"type:varchar(255);not null"`
	Body      string      `gorm:"type:text"`
	Data      pgutil.JSON `gorm:"type:jsonb"`
	IsRead    bool        `gorm:"not null;default:false"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime:false;index:idx_notifications_user_created,priority:2"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) (NotificationDTO, error) {
	var data pgutil.JSON
	if d := n.Data(); len(d) > 0 {
		raw, err := pgutil.MarshalJSON(d)
		if err != nil {
			return NotificationDTO{}, err
		}
		data = raw
	}

	return NotificationDTO{
		ID:        n.ID().Bytes(),
		UserID:    n.UserID().Bytes(),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Body:      n.Body(),
		Data:      data,
		IsRead:    n.IsRead(),
		CreatedAt: n.CreatedAt(),
	}, nil
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromGoogle(dto.UserID)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err = dto.Data.Unmarshal(&data); err != nil {
		return nil, err
	}

	return notification.RestoreNotification(
		id, userID, notification.Type(dto.Type), dto.Title, dto.Body, data, dto.IsRead, dto.CreatedAt,
	), nil
}
