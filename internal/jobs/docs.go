// Package jobs provides scheduled housekeeping for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. InviteExpiryJob - every 10 minutes deactivates operator invites that
// expired or ran out of uses
// 2. StaleContractorJob - every minute takes contractors offline whose last
// location ping is older than the configured window
//
// # Usage
//
//	jobManager := jobs.NewJobManager(expireInvitesHandler, staleHandler, 10*time.Minute, logger)
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. Failed job starts stop
// any already running jobs.
package jobs
