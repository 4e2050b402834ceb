package contractor

import (
	"errors"
	"strings"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

// DefaultOperatorCommissionRate is the share of the amount an operator earns
// on a delegated job unless configured otherwise.
const DefaultOperatorCommissionRate = 0.15

var (
	ErrContractorIsNotConstructed = errors.New("Contractor must be created via NewContractor constructor")
	ErrNotApproved                = errs.NewForbiddenError("work", "contractor is not approved")
)

// Contractor is the driver profile bound 1:1 to a user. A contractor may run
// a fleet (is operator) or belong to one (operator id), never both: the
// operator tree is two levels deep.
type Contractor struct {
	id             kernel.UUID
	userID         kernel.UUID
	approvalStatus ApprovalStatus
	isOnline       bool
	location       *kernel.GeoPoint
	lastSeenAt     *time.Time

	rating    float64
	totalJobs int
	truckType string

	connectAccountID string

	isOperator             bool
	operatorID             *kernel.UUID
	operatorCommissionRate float64

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewContractor registers a profile pending admin approval.
func NewContractor(id, userID kernel.UUID, truckType string, isOperator bool, now time.Time) (*Contractor, error) {
	if err := errors.Join(id.Validate(), userID.Validate()); err != nil {
		return nil, err
	}

	return &Contractor{
		id:                     id,
		userID:                 userID,
		approvalStatus:         ApprovalPending,
		truckType:              strings.TrimSpace(truckType),
		isOperator:             isOperator,
		operatorCommissionRate: DefaultOperatorCommissionRate,
		createdAt:              now,
		updatedAt:              now,
		isConstructed:          true,
	}, nil
}

// RestoreParams mirrors a persisted contractor row.
type RestoreParams struct {
	ID                     kernel.UUID
	UserID                 kernel.UUID
	ApprovalStatus         ApprovalStatus
	IsOnline               bool
	Location               *kernel.GeoPoint
	LastSeenAt             *time.Time
	Rating                 float64
	TotalJobs              int
	TruckType              string
	ConnectAccountID       string
	IsOperator             bool
	OperatorID             *kernel.UUID
	OperatorCommissionRate float64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func RestoreContractor(p RestoreParams) (*Contractor, error) {
	if err := errors.Join(p.ID.Validate(), p.UserID.Validate(), p.ApprovalStatus.Validate()); err != nil {
		return nil, err
	}

	rate := p.OperatorCommissionRate
	if rate <= 0 {
		rate = DefaultOperatorCommissionRate
	}

	return &Contractor{
		id:                     p.ID,
		userID:                 p.UserID,
		approvalStatus:         p.ApprovalStatus,
		isOnline:               p.IsOnline,
		location:               p.Location,
		lastSeenAt:             p.LastSeenAt,
		rating:                 p.Rating,
		totalJobs:              p.TotalJobs,
		truckType:              p.TruckType,
		connectAccountID:       p.ConnectAccountID,
		isOperator:             p.IsOperator,
		operatorID:             p.OperatorID,
		operatorCommissionRate: rate,
		createdAt:              p.CreatedAt,
		updatedAt:              p.UpdatedAt,
		isConstructed:          true,
	}, nil
}

func (c *Contractor) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrContractorIsNotConstructed
	}
	return nil
}

func (c *Contractor) ID() kernel.UUID                 { return c.id }
func (c *Contractor) UserID() kernel.UUID             { return c.userID }
func (c *Contractor) ApprovalStatus() ApprovalStatus  { return c.approvalStatus }
func (c *Contractor) IsOnline() bool                  { return c.isOnline }
func (c *Contractor) Location() *kernel.GeoPoint      { return c.location }
func (c *Contractor) LastSeenAt() *time.Time          { return c.lastSeenAt }
func (c *Contractor) Rating() float64                 { return c.rating }
func (c *Contractor) TotalJobs() int                  { return c.totalJobs }
func (c *Contractor) TruckType() string               { return c.truckType }
func (c *Contractor) ConnectAccountID() string        { return c.connectAccountID }
func (c *Contractor) IsOperator() bool                { return c.isOperator }
func (c *Contractor) OperatorID() *kernel.UUID        { return c.operatorID }
func (c *Contractor) OperatorCommissionRate() float64 { return c.operatorCommissionRate }
func (c *Contractor) CreatedAt() time.Time            { return c.createdAt }
func (c *Contractor) UpdatedAt() time.Time            { return c.updatedAt }

func (c *Contractor) IsApproved() bool { return c.approvalStatus == Approved }

// IsAvailable reports whether the contractor should receive new job offers.
func (c *Contractor) IsAvailable() bool {
	return c.isOnline && c.IsApproved()
}

// BelongsTo reports whether the contractor is in the given operator's fleet.
func (c *Contractor) BelongsTo(operatorID kernel.UUID) bool {
	return c.operatorID != nil && c.operatorID.IsEqual(operatorID)
}

// EnsureCanAcceptJobs returns a forbidden error unless the profile is approved.
func (c *Contractor) EnsureCanAcceptJobs() error {
	if !c.IsApproved() {
		return ErrNotApproved
	}
	return nil
}

func (c *Contractor) Approve(now time.Time) {
	c.approvalStatus = Approved
	c.updatedAt = now
}

// Suspend revokes approval and forces the contractor offline.
func (c *Contractor) Suspend(now time.Time) {
	c.approvalStatus = Suspended
	c.isOnline = false
	c.updatedAt = now
}

// SetAvailability toggles the online flag. Going online requires approval
// and counts as a sign of life; going offline is always allowed.
func (c *Contractor) SetAvailability(online bool, now time.Time) error {
	if online {
		if err := c.EnsureCanAcceptJobs(); err != nil {
			return err
		}
		c.lastSeenAt = &now
	}
	c.isOnline = online
	c.updatedAt = now
	return nil
}

// UpdateLocation records a location ping.
func (c *Contractor) UpdateLocation(point kernel.GeoPoint, now time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}
	c.location = &point
	c.lastSeenAt = &now
	c.updatedAt = now
	return nil
}

// IsStale reports whether an online contractor has not pinged since cutoff.
func (c *Contractor) IsStale(cutoff time.Time) bool {
	if !c.isOnline {
		return false
	}
	return c.lastSeenAt == nil || c.lastSeenAt.Before(cutoff)
}

// CompleteJob increments the completed job counter.
func (c *Contractor) CompleteJob(now time.Time) {
	c.totalJobs++
	c.updatedAt = now
}

func (c *Contractor) SetConnectAccount(accountID string, now time.Time) error {
	id := strings.TrimSpace(accountID)
	if id == "" {
		return errs.NewValueIsRequiredError("connect account id")
	}
	c.connectAccountID = id
	c.updatedAt = now
	return nil
}

// JoinFleet attaches the contractor to an operator's fleet.
func (c *Contractor) JoinFleet(operator *Contractor, now time.Time) error {
	if err := operator.Validate(); err != nil {
		return err
	}
	switch {
	case operator.id.IsEqual(c.id):
		return errs.NewConflictError("contractor", "cannot join its own fleet")
	case !operator.isOperator:
		return errs.NewConflictError("contractor", "target is not an operator")
	case operator.operatorID != nil:
		return errs.NewConflictError("contractor", "operator belongs to another fleet")
	case c.isOperator:
		return errs.NewConflictError("contractor", "an operator cannot join a fleet")
	case c.operatorID != nil:
		return errs.NewConflictError("contractor", "already belongs to a fleet")
	}

	id := operator.id
	c.operatorID = &id
	c.updatedAt = now
	return nil
}
