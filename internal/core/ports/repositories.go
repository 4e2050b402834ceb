// Package ports defines the contracts between the marketplace core and its
// infrastructure: repositories bound to a unit of work, and the outbound
// collaborators (payment provider, SMS, email, live channel, key-value
// store, photo storage, identity).
package ports

import (
	"context"
	"time"

	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/invite"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/core/domain/model/user"
)

// JobRepository is the persistence contract of the Job aggregate.
type JobRepository interface {
	// Add persists a new job.
	Add(ctx context.Context, aggregate *job.Job) error

	// Update persists changes of an existing job.
	Update(ctx context.Context, aggregate *job.Job) error

	// Get returns the job or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetForUpdate returns the job and holds a row lock on it until the
	// transaction ends. Used by every read-modify-write of a job.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// AcceptPending sets the driver and moves the job to accepted only if it
	// is still pending, in a single conditional update. It returns a
	// ConflictError when no row matched.
	//
	// Example:
	//   err := repo.AcceptPending(ctx, jobID, contractorID, time.Now())
	//   if errors.Is(err, errs.ErrConflict) {
	//       // someone else accepted first
	//   }
	AcceptPending(ctx context.Context, id, contractorID kernel.UUID, now time.Time) error

	// FindActiveByDriver returns the job the contractor is currently working,
	// or nil when there is none.
	FindActiveByDriver(ctx context.Context, contractorID kernel.UUID) (*job.Job, error)
}

// ContractorRepository is the persistence contract of the Contractor aggregate.
type ContractorRepository interface {
	Add(ctx context.Context, aggregate *contractor.Contractor) error
	Update(ctx context.Context, aggregate *contractor.Contractor) error
	Get(ctx context.Context, id kernel.UUID) (*contractor.Contractor, error)

	// GetForUpdate is Get with the row locked until the transaction ends.
	// Every read-modify-write of a contractor goes through it.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*contractor.Contractor, error)

	// GetByUserID returns the contractor profile of a user.
	GetByUserID(ctx context.Context, userID kernel.UUID) (*contractor.Contractor, error)

	// ListAvailable returns all online and approved contractors.
	ListAvailable(ctx context.Context) ([]*contractor.Contractor, error)

	// ListOnlineNotSeenSince returns online contractors whose last location
	// ping is older than cutoff or missing.
	ListOnlineNotSeenSince(ctx context.Context, cutoff time.Time) ([]*contractor.Contractor, error)
}

// PaymentRepository is the persistence contract of the Payment aggregate.
type PaymentRepository interface {
	Add(ctx context.Context, aggregate *payment.Payment) error
	Update(ctx context.Context, aggregate *payment.Payment) error
	GetByJobID(ctx context.Context, jobID kernel.UUID) (*payment.Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*payment.Payment, error)
}

// PricingRepository stores unit price rules and surge zones.
type PricingRepository interface {
	ListRules(ctx context.Context) ([]*pricing.Rule, error)

	// GetRuleByCategory returns an ObjectNotFoundError when no rule exists.
	GetRuleByCategory(ctx context.Context, category string) (*pricing.Rule, error)

	// SaveRule inserts or updates the rule of its category.
	SaveRule(ctx context.Context, rule *pricing.Rule) error

	ListSurgeZones(ctx context.Context) ([]*pricing.SurgeZone, error)
	GetSurgeZone(ctx context.Context, id kernel.UUID) (*pricing.SurgeZone, error)

	// SaveSurgeZone inserts or updates the zone by id.
	SaveSurgeZone(ctx context.Context, zone *pricing.SurgeZone) error
}

// NotificationRepository stores user notifications.
type NotificationRepository interface {
	Add(ctx context.Context, notifications ...*notification.Notification) error
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)
	Update(ctx context.Context, aggregate *notification.Notification) error
}

// InviteRepository stores operator invites.
type InviteRepository interface {
	Add(ctx context.Context, aggregate *invite.Invite) error
	Update(ctx context.Context, aggregate *invite.Invite) error
	Get(ctx context.Context, id kernel.UUID) (*invite.Invite, error)

	// GetByCode matches the upper-cased code.
	GetByCode(ctx context.Context, code string) (*invite.Invite, error)

	// ListActive returns every active invite; the caller decides which expired.
	ListActive(ctx context.Context) ([]*invite.Invite, error)
}

// UserRepository reads identities written by the identity service.
type UserRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)
}
