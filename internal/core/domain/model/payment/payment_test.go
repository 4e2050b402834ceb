package payment_test

import (
	"testing"
	"time"

	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSplit(t *testing.T) payment.Split {
	t.Helper()
	// 268.92: gross commission 53.78, driver 200.14, service fee 15.00
	s, err := payment.NewSplit(26892, 5378, 20014, 0, 1500)
	require.NoError(t, err)
	return s
}

func newPayment(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(kernel.NewUUID(), kernel.NewUUID(), newSplit(t), 0, time.Now())
	require.NoError(t, err)
	return p
}

func TestNewSplit(t *testing.T) {
	t.Run("should reject shares that do not add up", func(t *testing.T) {
		_, err := payment.NewSplit(10000, 2000, 6400, 0, 1500)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should accept shares that cover the amount", func(t *testing.T) {
		s, err := payment.NewSplit(10000, 2000, 6500, 0, 1500)

		require.NoError(t, err)
		assert.Equal(t, kernel.Money(6500), s.DriverPayout())
	})

	t.Run("should reject negative driver payout", func(t *testing.T) {
		_, err := payment.NewSplit(1000, 200, -700, 0, 1500)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestPayment_ChargeLifecycle(t *testing.T) {
	now := time.Now()

	t.Run("should succeed once and ignore replays", func(t *testing.T) {
		p := newPayment(t)

		changed, err := p.MarkSucceeded(now)
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = p.MarkSucceeded(now)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, payment.Succeeded, p.Status())
	})

	t.Run("should refund a succeeded payment", func(t *testing.T) {
		p := newPayment(t)
		_, _ = p.MarkSucceeded(now)

		changed, err := p.MarkRefunded(26892, now)

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, kernel.Money(26892), p.RefundedAmount())
	})

	t.Run("should refuse refunding a pending payment", func(t *testing.T) {
		p := newPayment(t)

		_, err := p.MarkRefunded(100, now)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, payment.Pending, p.Status())
	})

	t.Run("should refuse a late success after dispute", func(t *testing.T) {
		p := newPayment(t)
		_, _ = p.MarkSucceeded(now)
		_, _ = p.MarkDisputed(now)

		_, err := p.MarkFailed(now)

		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestPayment_AttachIntent(t *testing.T) {
	now := time.Now()

	t.Run("failed payment is reset to pending", func(t *testing.T) {
		p := newPayment(t)
		_, _ = p.MarkFailed(now)

		require.NoError(t, p.AttachIntent("pi_123", newSplit(t), 500, now))

		assert.Equal(t, payment.Pending, p.Status())
		assert.Equal(t, "pi_123", p.IntentID())
		assert.Equal(t, kernel.Money(500), p.Tip())
	})

	t.Run("succeeded payment cannot get a new intent", func(t *testing.T) {
		p := newPayment(t)
		_, _ = p.MarkSucceeded(now)

		require.ErrorIs(t, p.AttachIntent("pi_456", newSplit(t), 0, now), payment.ErrAlreadyPaid)
	})
}

func TestPayment_Payout(t *testing.T) {
	now := time.Now()

	t.Run("requires succeeded payment", func(t *testing.T) {
		p := newPayment(t)

		require.ErrorIs(t, p.MarkPayoutPaid("tr_1", "", now), payment.ErrPaymentNotSucceeded)
		assert.Equal(t, payment.PayoutPending, p.PayoutStatus())
	})

	t.Run("failed payout can be retried", func(t *testing.T) {
		p := newPayment(t)
		_, _ = p.MarkSucceeded(now)

		require.NoError(t, p.MarkPayoutFailed(now))
		assert.Equal(t, 1, p.PayoutAttempts())
		require.NoError(t, p.MarkPayoutPaid("tr_1", "tr_2", now))

		assert.Equal(t, payment.PayoutPaid, p.PayoutStatus())
		assert.Equal(t, "tr_2", p.OperatorTransferID())
		require.ErrorIs(t, p.EnsureCanPayout(), payment.ErrPayoutAlreadyPaid)
	})

	t.Run("driver transfer survives a failed operator leg", func(t *testing.T) {
		p := newPayment(t)
		_, _ = p.MarkSucceeded(now)

		require.NoError(t, p.RecordDriverTransfer("tr_driver", now))
		require.NoError(t, p.MarkPayoutFailed(now))

		assert.Equal(t, "tr_driver", p.TransferID())
		assert.Equal(t, payment.PayoutFailed, p.PayoutStatus())
		assert.Equal(t, 1, p.PayoutAttempts())
	})

	t.Run("driver transfer needs an id", func(t *testing.T) {
		p := newPayment(t)
		_, _ = p.MarkSucceeded(now)

		require.ErrorIs(t, p.RecordDriverTransfer(" ", now), errs.ErrValueIsRequired)
	})
}

func TestParseStatus(t *testing.T) {
	s, err := payment.ParseStatus("disputed")
	require.NoError(t, err)
	assert.Equal(t, payment.Disputed, s)

	ps, err := payment.ParsePayoutStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, payment.PayoutPaid, ps)
}
