package queries

import (
	"errors"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/guard"
)

var (
	ErrListNotificationsQueryIsNotConstructed = errors.New(
		"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
	)
)

// ListNotificationsQuery pages through the caller's notifications, newest
// first.
type ListNotificationsQuery struct {
	actor      services.Actor
	unreadOnly bool
	pagination Pagination

	guard guard.ConstructorGuard
}

func NewListNotificationsQuery(actor services.Actor, unreadOnly bool, pagination Pagination) (ListNotificationsQuery, error) {
	if err := validateActor(actor); err != nil {
		return ListNotificationsQuery{}, err
	}
	return ListNotificationsQuery{
		actor:      actor,
		unreadOnly: unreadOnly,
		pagination: NewPagination(pagination.Page, pagination.PerPage),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

func (q ListNotificationsQuery) Actor() services.Actor  { return q.actor }
func (q ListNotificationsQuery) UnreadOnly() bool       { return q.unreadOnly }
func (q ListNotificationsQuery) Pagination() Pagination { return q.pagination }

type NotificationView struct {
	ID        kernel.UUID
	Type      notification.Type
	Title     string
	Body      string
	Data      map[string]any
	IsRead    bool
	CreatedAt time.Time
}

// NotificationList is a page of notifications with the caller's unread
// count across all pages.
type NotificationList struct {
	Page[NotificationView]
	UnreadCount int64
}
