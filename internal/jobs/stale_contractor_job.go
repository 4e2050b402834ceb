package jobs

import (
	"context"
	"time"

	"junkos/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const staleContractorSchedule = "@every 1m"

// StaleContractorSweeper takes silent contractors offline.
type StaleContractorSweeper interface {
	Handle(ctx context.Context, cmd commands.MarkStaleContractorsOfflineCommand) (int, error)
}

// StaleContractorJob marks contractors offline once their last location ping
// is older than staleAfter. Runs every minute.
type StaleContractorJob struct {
	handler    StaleContractorSweeper
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *zap.Logger
}

func NewStaleContractorJob(handler StaleContractorSweeper, staleAfter time.Duration, logger *zap.Logger) *StaleContractorJob {
	return &StaleContractorJob{
		handler:    handler,
		staleAfter: staleAfter,
		cron:       cron.New(),
		logger:     logger.With(zap.String("component", "stale_contractor_job")),
	}
}

func (j *StaleContractorJob) Start() error {
	if _, err := commands.NewMarkStaleContractorsOfflineCommand(j.staleAfter); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc(staleContractorSchedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("stale contractor job started",
		zap.String("schedule", staleContractorSchedule),
		zap.Duration("stale_after", j.staleAfter))
	return nil
}

// Run performs one sweep.
func (j *StaleContractorJob) Run(ctx context.Context) {
	cmd, err := commands.NewMarkStaleContractorsOfflineCommand(j.staleAfter)
	if err != nil {
		j.logger.Error("invalid stale contractor window", zap.Error(err))
		return
	}
	n, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.Error("stale contractor sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.logger.Info("contractors marked offline", zap.Int("count", n))
	}
}

func (j *StaleContractorJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("stale contractor job stopped")
}
