// Package notification is the persisted half of the fan-out: a user-addressed
// record the mobile apps poll and mark read.
package notification

import (
	"errors"
	"maps"
	"strings"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

type Type string

const (
	TypeNewJob      Type = "new_job"
	TypeJobAssigned Type = "job_assigned"
	TypeJobUpdate   Type = "job_update"
	TypePayment     Type = "payment"
	TypeSystem      Type = "system"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

type Notification struct {
	id        kernel.UUID
	userID    kernel.UUID
	kind      Type
	title     string
	body      string
	data      map[string]any
	isRead    bool
	createdAt time.Time

	isConstructed bool
}

func NewNotification(id, userID kernel.UUID, kind Type, title, body string, data map[string]any, now time.Time) (*Notification, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(kind)) == "" {
		return nil, errs.NewValueIsRequiredError("type")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errs.NewValueIsRequiredError("title")
	}
	return &Notification{
		id:            id,
		userID:        userID,
		kind:          kind,
		title:         title,
		body:          body,
		data:          maps.Clone(data),
		createdAt:     now,
		isConstructed: true,
	}, nil
}

func RestoreNotification(id, userID kernel.UUID, kind Type, title, body string, data map[string]any, isRead bool, createdAt time.Time) *Notification {
	return &Notification{
		id:            id,
		userID:        userID,
		kind:          kind,
		title:         title,
		body:          body,
		data:          data,
		isRead:        isRead,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID      { return n.id }
func (n *Notification) UserID() kernel.UUID  { return n.userID }
func (n *Notification) Type() Type           { return n.kind }
func (n *Notification) Title() string        { return n.title }
func (n *Notification) Body() string         { return n.body }
func (n *Notification) Data() map[string]any { return maps.Clone(n.data) }
func (n *Notification) IsRead() bool         { return n.isRead }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }

// MarkRead is only allowed to the addressee.
func (n *Notification) MarkRead(userID kernel.UUID) error {
	if !n.userID.IsEqual(userID) {
		return errs.NewForbiddenError("mark notification read", "not the addressee")
	}
	n.isRead = true
	return nil
}
