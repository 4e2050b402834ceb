package dispatch

import (
	"context"
	"sync"
	"time"

	"junkos/internal/core/ports"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every provider call made by the Dispatcher.
const DefaultTimeout = 5 * time.Second

// Dispatcher delivers a committed Batch. Live events are pushed inline; SMS
// and email run in the background. Every failure is logged and dropped: a
// booking or payment must never fail because a message could not be sent.
type Dispatcher struct {
	live    ports.LiveChannel
	sms     ports.SMSSender
	email   ports.EmailSender
	timeout time.Duration
	logger  *zap.Logger

	wg sync.WaitGroup
}

func NewDispatcher(
	live ports.LiveChannel,
	sms ports.SMSSender,
	email ports.EmailSender,
	timeout time.Duration,
	logger *zap.Logger,
) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		live:    live,
		sms:     sms,
		email:   email,
		timeout: timeout,
		logger:  logger.With(zap.String("component", "dispatcher")),
	}
}

// Flush delivers the batch. It must only be called after the unit of work
// that produced the batch committed.
func (d *Dispatcher) Flush(ctx context.Context, b *Batch) {
	if b == nil || b.IsEmpty() {
		return
	}

	for _, ev := range b.Live {
		d.emit(ctx, ev)
	}

	if len(b.SMS) == 0 && len(b.Emails) == 0 {
		return
	}

	// Outbound messages outlive the request that produced them.
	bg := context.WithoutCancel(ctx)
	sms := append([]SMS(nil), b.SMS...)
	emails := append([]Email(nil), b.Emails...)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, m := range sms {
			d.text(bg, m)
		}
		for _, m := range emails {
			d.mail(bg, m)
		}
	}()
}

// Wait blocks until background sends finished. Called on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) emit(ctx context.Context, ev LiveEvent) {
	if d.live == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.live.Emit(ctx, ev.Room, ev.Event, ev.Payload); err != nil {
		d.logger.Warn("live emit failed",
			zap.String("room", ev.Room), zap.String("event", ev.Event), zap.Error(err))
	}
}

func (d *Dispatcher) text(ctx context.Context, m SMS) {
	if d.sms == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id, err := d.sms.SendSMS(ctx, m.To, m.Body)
	if err != nil {
		d.logger.Warn("sms send failed", zap.Error(err))
		return
	}
	d.logger.Debug("sms sent", zap.String("message_id", id))
}

func (d *Dispatcher) mail(ctx context.Context, m Email) {
	if d.email == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id, err := d.email.SendEmail(ctx, m.To, m.Subject, m.HTML)
	if err != nil {
		d.logger.Warn("email send failed", zap.String("subject", m.Subject), zap.Error(err))
		return
	}
	d.logger.Debug("email sent", zap.String("message_id", id))
}
