package queries

import (
	"context"
	"encoding/json"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListNotificationsQueryHandler struct {
	db *gorm.DB
}

func NewListNotificationsQueryHandler(db *gorm.DB) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{db: db}
}

func (h ListNotificationsQueryHandler) Handle(ctx context.Context, query ListNotificationsQuery) (NotificationList, error) {
	if err := query.Validate(); err != nil {
		return NotificationList{}, err
	}
	userID := query.Actor().UserID.Bytes()

	var total, unread int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE NOT @unreadOnly OR NOT is_read),
			COUNT(*) FILTER (WHERE NOT is_read)
		FROM notifications
		WHERE user_id = @user
	`, map[string]any{"user": userID, "unreadOnly": query.UnreadOnly()}).Row().Scan(&total, &unread)
	if err != nil {
		return NotificationList{}, err
	}

	p := query.Pagination()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			title,
			COALESCE(body, ''),
			data,
			is_read,
			created_at
		FROM notifications
		WHERE user_id = @user AND (NOT @unreadOnly OR NOT is_read)
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset
	`, map[string]any{
		"user":       userID,
		"unreadOnly": query.UnreadOnly(),
		"limit":      p.PerPage,
		"offset":     p.offset(),
	}).Rows()
	if err != nil {
		return NotificationList{}, err
	}
	defer rows.Close()

	views := make([]NotificationView, 0, p.PerPage)
	for rows.Next() {
		var (
			v    NotificationView
			id   uuid.UUID
			kind string
			data []byte
		)
		if err = rows.Scan(&id, &kind, &v.Title, &v.Body, &data, &v.IsRead, &v.CreatedAt); err != nil {
			return NotificationList{}, err
		}
		if v.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return NotificationList{}, err
		}
		v.Type = notification.Type(kind)
		if len(data) > 0 {
			if err = json.Unmarshal(data, &v.Data); err != nil {
				return NotificationList{}, err
			}
		}
		views = append(views, v)
	}
	if err = rows.Err(); err != nil {
		return NotificationList{}, err
	}
	return NotificationList{Page: newPage(views, total, p), UnreadCount: unread}, nil
}
