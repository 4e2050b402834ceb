package commands

import (
	"errors"
	"strings"
	"time"

	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/pkg/guard"
)

var (
	ErrCreateJobCommandIsNotConstructed = errors.New(
		"CreateJobCommand must be created via NewCreateJobCommand constructor",
	)
)

// CreateJobCommand is a customer booking: where to pick up, what to haul and
// when.
//
// Example:
//
//	item, _ := job.NewLineItem("furniture", 2, nil)
//	cmd, err := NewCreateJobCommand(customerID, "1 Ocean Dr", location,
//	    []job.LineItem{item}, nil, nil, "gate code 1234")
type CreateJobCommand struct { //nolint:recvcheck //using for validation
	customerID  kernel.UUID
	address     string
	location    *kernel.GeoPoint
	items       []job.LineItem
	photos      []string
	scheduledAt *time.Time
	notes       string

	guard guard.ConstructorGuard
}

// NewCreateJobCommand validates the booking. The location is optional; a job
// without coordinates is offered to every available contractor.
func NewCreateJobCommand(
	customerID kernel.UUID,
	address string,
	location *kernel.GeoPoint,
	items []job.LineItem,
	photos []string,
	scheduledAt *time.Time,
	notes string,
) (CreateJobCommand, error) {
	cmd := CreateJobCommand{
		location:    location,
		photos:      photos,
		scheduledAt: scheduledAt,
		notes:       notes,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setAddress(address),
		cmd.setItems(items),
	); err != nil {
		return CreateJobCommand{}, err
	}

	return cmd, nil
}

func (c CreateJobCommand) Validate() error {
	return c.guard.Validate(ErrCreateJobCommandIsNotConstructed)
}

func (c CreateJobCommand) CustomerID() kernel.UUID    { return c.customerID }
func (c CreateJobCommand) Address() string            { return c.address }
func (c CreateJobCommand) Location() *kernel.GeoPoint { return c.location }
func (c CreateJobCommand) Items() []job.LineItem      { return c.items }
func (c CreateJobCommand) Photos() []string           { return c.photos }
func (c CreateJobCommand) ScheduledAt() *time.Time    { return c.scheduledAt }
func (c CreateJobCommand) Notes() string              { return c.notes }

func (c *CreateJobCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *CreateJobCommand) setAddress(address string) error {
	a := strings.TrimSpace(address)
	if a == "" {
		return job.ErrAddressIsRequired
	}
	c.address = a
	return nil
}

func (c *CreateJobCommand) setItems(items []job.LineItem) error {
	if len(items) == 0 {
		return job.ErrItemsAreRequired
	}
	c.items = items
	return nil
}
