package job

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/errs"
)

var (
	// ErrJobIsNotConstructed is returned when a Job was not created through
	// NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")

	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
	ErrItemsAreRequired  = errs.NewValueIsRequiredError("items")
)

// NewJobParams carries the booking data a customer submits.
type NewJobParams struct {
	ID          kernel.UUID
	CustomerID  kernel.UUID
	Address     string
	Location    *kernel.GeoPoint
	Items       []LineItem
	Photos      []string
	ScheduledAt *time.Time
	Notes       string
	Price       PriceBreakdown
	Now         time.Time
}

// Job is the aggregate root for a pickup request. It owns the state machine,
// the ownership references (customer, driver, operator) and the priced
// composition of the request.
//
// Job follows these invariants:
//   - Must have a valid id, a customer and a non-empty address
//   - Must have at least one item line
//   - A driver reference exists exactly when the job is held by a contractor
//   - An operator reference exists for delegating jobs and jobs delegated
//     from them
//   - The total price is derived from PriceBreakdown and never set directly
type Job struct {
	id         kernel.UUID
	customerID kernel.UUID
	driverID   *kernel.UUID
	operatorID *kernel.UUID
	status     Status

	address  string
	location *kernel.GeoPoint
	items    []LineItem
	notes    string

	photos       []string
	beforePhotos []string
	afterPhotos  []string

	scheduledAt *time.Time
	delegatedAt *time.Time
	startedAt   *time.Time
	completedAt *time.Time

	price PriceBreakdown

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewJob creates a pending job from a booking.
//
// Example:
//
//	item, _ := job.NewLineItem("furniture", 2, nil)
//	price, _ := job.NewPriceBreakdown(9900, 15000, 0, 1.0, 0.08)
//	j, err := job.NewJob(job.NewJobParams{
//	    ID: kernel.NewUUID(), CustomerID: customerID,
//	    Address: "1 Ocean Dr", Items: []job.LineItem{item},
//	    Price: price, Now: time.Now(),
//	})
func NewJob(p NewJobParams) (*Job, error) {
	j := &Job{
		status:        Pending,
		location:      p.Location,
		photos:        cleanURLs(p.Photos),
		scheduledAt:   p.ScheduledAt,
		notes:         strings.TrimSpace(p.Notes),
		price:         p.Price,
		createdAt:     p.Now,
		updatedAt:     p.Now,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(p.ID),
		j.setCustomer(p.CustomerID),
		j.setAddress(p.Address),
		j.setItems(p.Items),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreParams mirrors a persisted job row.
type RestoreParams struct {
	NewJobParams
	DriverID     *kernel.UUID
	OperatorID   *kernel.UUID
	Status       Status
	BeforePhotos []string
	AfterPhotos  []string
	DelegatedAt  *time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RestoreJob rehydrates a job from persistence. The status is validated but
// not replayed through the state machine.
func RestoreJob(p RestoreParams) (*Job, error) {
	if err := p.Status.Validate(); err != nil {
		return nil, err
	}

	j := &Job{
		id:            p.ID,
		customerID:    p.CustomerID,
		driverID:      p.DriverID,
		operatorID:    p.OperatorID,
		status:        p.Status,
		address:       p.Address,
		location:      p.Location,
		items:         p.Items,
		notes:         p.Notes,
		photos:        p.Photos,
		beforePhotos:  p.BeforePhotos,
		afterPhotos:   p.AfterPhotos,
		scheduledAt:   p.ScheduledAt,
		delegatedAt:   p.DelegatedAt,
		startedAt:     p.StartedAt,
		completedAt:   p.CompletedAt,
		price:         p.Price,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
		isConstructed: true,
	}

	if err := errors.Join(p.ID.Validate(), p.CustomerID.Validate()); err != nil {
		return nil, err
	}

	return j, nil
}

// Validate ensures the job was built by a constructor.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

func (j *Job) ID() kernel.UUID            { return j.id }
func (j *Job) CustomerID() kernel.UUID    { return j.customerID }
func (j *Job) DriverID() *kernel.UUID     { return j.driverID }
func (j *Job) OperatorID() *kernel.UUID   { return j.operatorID }
func (j *Job) Status() Status             { return j.status }
func (j *Job) Address() string            { return j.address }
func (j *Job) Location() *kernel.GeoPoint { return j.location }
func (j *Job) Items() []LineItem          { return append([]LineItem(nil), j.items...) }
func (j *Job) Notes() string              { return j.notes }
func (j *Job) Photos() []string           { return append([]string(nil), j.photos...) }
func (j *Job) BeforePhotos() []string     { return append([]string(nil), j.beforePhotos...) }
func (j *Job) AfterPhotos() []string      { return append([]string(nil), j.afterPhotos...) }
func (j *Job) ScheduledAt() *time.Time    { return j.scheduledAt }
func (j *Job) DelegatedAt() *time.Time    { return j.delegatedAt }
func (j *Job) StartedAt() *time.Time      { return j.startedAt }
func (j *Job) CompletedAt() *time.Time    { return j.completedAt }
func (j *Job) Price() PriceBreakdown      { return j.price }
func (j *Job) CreatedAt() time.Time       { return j.createdAt }
func (j *Job) UpdatedAt() time.Time       { return j.updatedAt }

// IsHeldBy reports whether the given contractor is the job's driver.
func (j *Job) IsHeldBy(contractorID kernel.UUID) bool {
	return j.driverID != nil && j.driverID.IsEqual(contractorID)
}

// IsOwnedByOperator reports whether the job was routed to the given operator.
func (j *Job) IsOwnedByOperator(operatorID kernel.UUID) bool {
	return j.operatorID != nil && j.operatorID.IsEqual(operatorID)
}

// Accept records a direct accept by a contractor: pending -> accepted.
// Persistence must apply this change with a conditional update so that only
// one concurrent accept wins.
func (j *Job) Accept(contractorID kernel.UUID, now time.Time) error {
	if j.status != Pending {
		return errs.NewConflictError("job", "is no longer pending")
	}
	return j.takeOwnership(Accepted, contractorID, now)
}

// Assign records an admin assignment. Allowed from pending, confirmed,
// delegating, accepted and assigned (reassignment before the driver leaves).
func (j *Job) Assign(contractorID kernel.UUID, now time.Time) error {
	return j.takeOwnership(Assigned, contractorID, now)
}

// RouteToOperator pre-routes a pending job to an operator: pending -> delegating.
func (j *Job) RouteToOperator(operatorID kernel.UUID, now time.Time) error {
	if err := operatorID.Validate(); err != nil {
		return err
	}
	next, err := j.status.TransitionTo(Delegating)
	if err != nil {
		return err
	}

	j.status = next
	j.operatorID = &operatorID
	j.updatedAt = now
	return nil
}

// Delegate hands a delegating job to one of the operator's contractors:
// delegating -> assigned, recording delegated_at.
func (j *Job) Delegate(contractorID kernel.UUID, now time.Time) error {
	if j.status != Delegating {
		return errs.NewConflictError("job", "is not in delegating status")
	}
	if err := j.takeOwnership(Assigned, contractorID, now); err != nil {
		return err
	}
	j.delegatedAt = &now
	return nil
}

// TransitionTo applies a non-ownership transition (en_route, arrived,
// started, completed, cancelled). Photo URLs are attached as before photos
// on started and as after photos on completed; they are ignored otherwise.
func (j *Job) TransitionTo(to Status, photos []string, now time.Time) error {
	switch to { //nolint:exhaustive
	case Accepted, Assigned, Delegating:
		return errs.NewConflictError("job",
			fmt.Sprintf("cannot move to %s without an owner, use the dedicated operation", to))
	}

	next, err := j.status.TransitionTo(to)
	if err != nil {
		return err
	}

	j.status = next
	j.updatedAt = now

	switch next { //nolint:exhaustive
	case Started:
		j.startedAt = &now
		j.beforePhotos = append(j.beforePhotos, cleanURLs(photos)...)
	case Completed:
		j.completedAt = &now
		j.afterPhotos = append(j.afterPhotos, cleanURLs(photos)...)
	}
	return nil
}

// CancelByCustomer cancels a job the customer still controls.
func (j *Job) CancelByCustomer(now time.Time) error {
	if !j.status.CanCustomerCancel() {
		return errs.NewConflictError("job",
			fmt.Sprintf("cannot be cancelled by the customer in %s status", j.status))
	}
	return j.TransitionTo(Cancelled, nil, now)
}

func (j *Job) takeOwnership(to Status, contractorID kernel.UUID, now time.Time) error {
	if err := contractorID.Validate(); err != nil {
		return err
	}
	next, err := j.status.TransitionTo(to)
	if err != nil {
		return err
	}

	j.status = next
	j.driverID = &contractorID
	j.updatedAt = now
	return nil
}

func (j *Job) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	j.id = id
	return nil
}

func (j *Job) setCustomer(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	j.customerID = id
	return nil
}

func (j *Job) setAddress(address string) error {
	a := strings.TrimSpace(address)
	if a == "" {
		return ErrAddressIsRequired
	}
	j.address = a
	return nil
}

func (j *Job) setItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	j.items = append([]LineItem(nil), items...)
	return nil
}

func cleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
