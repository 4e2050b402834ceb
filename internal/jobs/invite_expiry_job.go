package jobs

import (
	"context"

	"junkos/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const inviteExpirySchedule = "@every 10m"

// InviteExpirer deactivates invites past their expiry or use limit.
type InviteExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireInvitesCommand) (int, error)
}

// InviteExpiryJob runs InviteExpirer every ten minutes.
type InviteExpiryJob struct {
	handler InviteExpirer
	cron    *cron.Cron
	logger  *zap.Logger
}

func NewInviteExpiryJob(handler InviteExpirer, logger *zap.Logger) *InviteExpiryJob {
	return &InviteExpiryJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With(zap.String("component", "invite_expiry_job")),
	}
}

func (j *InviteExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(inviteExpirySchedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("invite expiry job started", zap.String("schedule", inviteExpirySchedule))
	return nil
}

// Run performs one sweep.
func (j *InviteExpiryJob) Run(ctx context.Context) {
	n, err := j.handler.Handle(ctx, commands.NewExpireInvitesCommand())
	if err != nil {
		j.logger.Error("invite expiry failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.logger.Info("invites deactivated", zap.Int("count", n))
	}
}

// Stop waits for a running sweep to finish.
func (j *InviteExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("invite expiry job stopped")
}
