package invite

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

var (
	ErrInviteIsNotConstructed = errors.New("Invite must be created via NewInvite constructor")
	ErrInviteIsNotUsable      = errs.NewConflictError("invite", "is expired, exhausted or revoked")
)

// Invite is a code an operator hands out to onboard fleet contractors.
type Invite struct {
	id         kernel.UUID
	operatorID kernel.UUID
	code       string
	email      string
	maxUses    int
	useCount   int
	expiresAt  *time.Time
	isActive   bool
	createdAt  time.Time

	isConstructed bool
}

// GenerateCode returns an 8 character upper-case code.
func GenerateCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(base64.RawURLEncoding.EncodeToString(buf)), nil
}

func NewInvite(id, operatorID kernel.UUID, code, email string, maxUses int, expiresAt *time.Time, now time.Time) (*Invite, error) {
	if err := errors.Join(id.Validate(), operatorID.Validate()); err != nil {
		return nil, err
	}
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return nil, errs.NewValueIsRequiredError("invite code")
	}
	if maxUses < 1 {
		return nil, errs.NewValueIsOutOfRangeError("max uses", maxUses, 1, "unbounded")
	}
	if expiresAt != nil && !expiresAt.After(now) {
		return nil, errs.NewValueIsInvalidError("expires at must be in the future")
	}
	return &Invite{
		id:            id,
		operatorID:    operatorID,
		code:          c,
		email:         strings.TrimSpace(email),
		maxUses:       maxUses,
		expiresAt:     expiresAt,
		isActive:      true,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

type RestoreParams struct {
	ID         kernel.UUID
	OperatorID kernel.UUID
	Code       string
	Email      string
	MaxUses    int
	UseCount   int
	ExpiresAt  *time.Time
	IsActive   bool
	CreatedAt  time.Time
}

func RestoreInvite(p RestoreParams) *Invite {
	return &Invite{
		id:            p.ID,
		operatorID:    p.OperatorID,
		code:          p.Code,
		email:         p.Email,
		maxUses:       p.MaxUses,
		useCount:      p.UseCount,
		expiresAt:     p.ExpiresAt,
		isActive:      p.IsActive,
		createdAt:     p.CreatedAt,
		isConstructed: true,
	}
}

func (i *Invite) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrInviteIsNotConstructed
	}
	return nil
}

func (i *Invite) ID() kernel.UUID         { return i.id }
func (i *Invite) OperatorID() kernel.UUID { return i.operatorID }
func (i *Invite) Code() string            { return i.code }
func (i *Invite) Email() string           { return i.email }
func (i *Invite) MaxUses() int            { return i.maxUses }
func (i *Invite) UseCount() int           { return i.useCount }
func (i *Invite) ExpiresAt() *time.Time   { return i.expiresAt }
func (i *Invite) IsActive() bool          { return i.isActive }
func (i *Invite) CreatedAt() time.Time    { return i.createdAt }

// IsUsable reports whether the code can still onboard a contractor.
func (i *Invite) IsUsable(now time.Time) bool {
	if !i.isActive || i.useCount >= i.maxUses {
		return false
	}
	return i.expiresAt == nil || now.Before(*i.expiresAt)
}

// Consume uses up one slot. The invite deactivates itself when exhausted.
func (i *Invite) Consume(now time.Time) error {
	if !i.IsUsable(now) {
		return ErrInviteIsNotUsable
	}
	i.useCount++
	if i.useCount >= i.maxUses {
		i.isActive = false
	}
	return nil
}

// Revoke deactivates the invite. Only the issuing operator may revoke.
func (i *Invite) Revoke(operatorID kernel.UUID) error {
	if !i.operatorID.IsEqual(operatorID) {
		return errs.NewForbiddenError("revoke invite", "not issued by this operator")
	}
	i.isActive = false
	return nil
}

// Expire deactivates an invite that can no longer be used; it reports
// whether anything changed.
func (i *Invite) Expire(now time.Time) bool {
	if !i.isActive || i.IsUsable(now) {
		return false
	}
	i.isActive = false
	return true
}
