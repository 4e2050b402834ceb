// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// persistence and, after commit, side effect dispatch.
package commands

import (
	"context"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// JobRepoFactory provides access to job repository within a transaction.
	JobRepoFactory interface {
		JobRepository() ports.JobRepository
	}

	// ContractorRepoFactory provides access to contractor repository within a transaction.
	ContractorRepoFactory interface {
		ContractorRepository() ports.ContractorRepository
	}

	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	PricingRepoFactory interface {
		PricingRepository() ports.PricingRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	InviteRepoFactory interface {
		InviteRepository() ports.InviteRepository
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// UoW manages transactions across every aggregate of the marketplace.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   jobRepo := uow.JobRepository()
	//   contractorRepo := uow.ContractorRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		JobRepoFactory
		ContractorRepoFactory
		PaymentRepoFactory
		PricingRepoFactory
		NotificationRepoFactory
		InviteRepoFactory
		UserRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}

	// EventFlusher sends the side effects collected during a unit of work.
	// It is called only after a successful commit and never fails the caller.
	EventFlusher interface {
		Flush(ctx context.Context, b *dispatch.Batch)
	}
)
