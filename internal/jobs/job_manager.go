package jobs

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	inviteExpiryJob    *InviteExpiryJob
	staleContractorJob *StaleContractorJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expireInvitesHandler InviteExpirer,
	staleContractorsHandler StaleContractorSweeper,
	staleAfter time.Duration,
	logger *zap.Logger,
) *JobManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobManager{
		inviteExpiryJob:    NewInviteExpiryJob(expireInvitesHandler, logger),
		staleContractorJob: NewStaleContractorJob(staleContractorsHandler, staleAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.inviteExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start invite expiry job: %w", err)
	}

	if err := jm.staleContractorJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.inviteExpiryJob.Stop()
		return fmt.Errorf("failed to start stale contractor job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleContractorJob.Stop()
	jm.inviteExpiryJob.Stop()
}
