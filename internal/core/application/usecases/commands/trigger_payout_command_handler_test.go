package commands_test

import (
	"errors"
	"testing"
	"time"

	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/services"
	"junkos/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type payoutFixture struct {
	job     *job.Job
	payment *payment.Payment
	driver  *contractor.Contractor
}

func newPayoutFixture(t *testing.T, driverAccount string) payoutFixture {
	t.Helper()
	driver := newApprovedContractor(t, false)
	if driverAccount != "" {
		require.NoError(t, driver.SetConnectAccount(driverAccount, testNow))
	}
	j := startedJob(t, driver)
	require.NoError(t, j.TransitionTo(job.Completed, nil, testNow.Add(-time.Minute)))

	p := newPendingPayment(t, j)
	require.NoError(t, p.AttachIntent("pi_paid", p.Split(), 0, testNow))
	_, err := p.MarkSucceeded(testNow)
	require.NoError(t, err)

	return payoutFixture{job: j, payment: p, driver: driver}
}

func TestTriggerPayoutCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newPayoutFixture(t, "acct_driver")

	u := newTestUoW()
	u.expectTx(ctx)
	u.jobs.On("Get", ctx, f.job.ID()).Return(f.job, nil).Once()
	u.payments.On("GetByJobID", ctx, f.job.ID()).Return(f.payment, nil).Once()
	u.contractors.On("Get", ctx, f.driver.ID()).Return(f.driver, nil).Once()
	u.payments.On("Update", ctx, f.payment).Return(nil).Once()
	u.notifications.On("Add", ctx, mock.Anything).Return(nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("CreateTransfer", mock.Anything, f.payment.Split().DriverPayout(), "acct_driver", map[string]string{
		"job_id":          f.job.ID().String(),
		"payment_id":      f.payment.ID().String(),
		"recipient":       "driver",
		"idempotency_key": "payout:" + f.payment.ID().String() + ":driver:0",
	}).Return("tr_1", nil).Once()

	cmd, err := commands.NewTriggerPayoutCommand(adminActor(), f.job.ID())
	require.NoError(t, err)

	got, err := commands.NewTriggerPayoutCommandHandler(u.factory, gateway, 0, fixedClock{testNow}).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, payment.PayoutPaid, got.PayoutStatus())
	assert.Equal(t, "tr_1", got.TransferID())
	assert.Empty(t, got.OperatorTransferID())
	gateway.AssertExpectations(t)
	u.assert(t)
}

func TestTriggerPayoutCommandHandler_Handle_TransferFailureIsRecorded(t *testing.T) {
	ctx := t.Context()
	f := newPayoutFixture(t, "acct_driver")

	u := newTestUoW()
	u.expectTx(ctx)
	u.jobs.On("Get", ctx, f.job.ID()).Return(f.job, nil).Once()
	u.payments.On("GetByJobID", ctx, f.job.ID()).Return(f.payment, nil).Once()
	u.contractors.On("Get", ctx, f.driver.ID()).Return(f.driver, nil).Once()
	u.payments.On("Update", ctx, f.payment).Return(nil).Once()

	gateway := new(MockPaymentGateway)
	gateway.On("CreateTransfer", mock.Anything, mock.Anything, "acct_driver", mock.Anything).
		Return("", errors.New("account restricted")).Once()

	cmd, err := commands.NewTriggerPayoutCommand(adminActor(), f.job.ID())
	require.NoError(t, err)

	_, err = commands.NewTriggerPayoutCommandHandler(u.factory, gateway, 0, fixedClock{testNow}).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrGateway)
	assert.Equal(t, payment.PayoutFailed, f.payment.PayoutStatus())
	u.uow.AssertCalled(t, "Commit", ctx)
	u.notifications.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestTriggerPayoutCommandHandler_Handle_RetryAfterFailure(t *testing.T) {
	t.Run("driver leg is retried under a new key", func(t *testing.T) {
		ctx := t.Context()
		f := newPayoutFixture(t, "acct_driver")
		handler := func(u *testUoW, gateway *MockPaymentGateway) commands.TriggerPayoutCommandHandler {
			return commands.NewTriggerPayoutCommandHandler(u.factory, gateway, 0, fixedClock{testNow})
		}
		cmd, err := commands.NewTriggerPayoutCommand(adminActor(), f.job.ID())
		require.NoError(t, err)

		first := newTestUoW()
		first.expectTx(ctx)
		first.jobs.On("Get", ctx, f.job.ID()).Return(f.job, nil).Once()
		first.payments.On("GetByJobID", ctx, f.job.ID()).Return(f.payment, nil).Once()
		first.contractors.On("Get", ctx, f.driver.ID()).Return(f.driver, nil).Once()
		first.payments.On("Update", ctx, f.payment).Return(nil).Once()
		failing := new(MockPaymentGateway)
		failing.On("CreateTransfer", mock.Anything, mock.Anything, "acct_driver",
			mock.MatchedBy(func(md map[string]string) bool {
				return md["idempotency_key"] == "payout:"+f.payment.ID().String()+":driver:0"
			})).Return("", errors.New("insufficient balance")).Once()

		_, err = handler(first, failing).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrGateway)
		assert.Equal(t, payment.PayoutFailed, f.payment.PayoutStatus())
		assert.Equal(t, 1, f.payment.PayoutAttempts())

		retry := newTestUoW()
		retry.expectTx(ctx)
		retry.jobs.On("Get", ctx, f.job.ID()).Return(f.job, nil).Once()
		retry.payments.On("GetByJobID", ctx, f.job.ID()).Return(f.payment, nil).Once()
		retry.contractors.On("Get", ctx, f.driver.ID()).Return(f.driver, nil).Once()
		retry.payments.On("Update", ctx, f.payment).Return(nil).Once()
		retry.notifications.On("Add", ctx, mock.Anything).Return(nil).Once()
		working := new(MockPaymentGateway)
		working.On("CreateTransfer", mock.Anything, mock.Anything, "acct_driver",
			mock.MatchedBy(func(md map[string]string) bool {
				return md["idempotency_key"] == "payout:"+f.payment.ID().String()+":driver:1"
			})).Return("tr_1", nil).Once()

		got, err := handler(retry, working).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, payment.PayoutPaid, got.PayoutStatus())
		assert.Equal(t, "tr_1", got.TransferID())
		failing.AssertExpectations(t)
		working.AssertExpectations(t)
		retry.assert(t)
	})

	t.Run("paid driver leg is not sent again", func(t *testing.T) {
		ctx := t.Context()
		op := newApprovedContractor(t, true)
		require.NoError(t, op.SetConnectAccount("acct_operator", testNow))
		member := newApprovedContractor(t, false)
		require.NoError(t, member.JoinFleet(op, testNow))
		require.NoError(t, member.SetConnectAccount("acct_member", testNow))

		j := newPendingJob(t, kernel.NewUUID())
		require.NoError(t, j.RouteToOperator(op.ID(), testNow))
		require.NoError(t, j.Delegate(member.ID(), testNow))

		split, err := services.NewSettlementCalculator().Split(j.Price().Total(), 0, op)
		require.NoError(t, err)
		p, err := payment.NewPayment(kernel.NewUUID(), j.ID(), split, 0, testNow)
		require.NoError(t, err)
		_, err = p.MarkSucceeded(testNow)
		require.NoError(t, err)

		cmd, err := commands.NewTriggerPayoutCommand(adminActor(), j.ID())
		require.NoError(t, err)
		expectReads := func(u *testUoW) {
			u.expectTx(ctx)
			u.jobs.On("Get", ctx, j.ID()).Return(j, nil).Once()
			u.payments.On("GetByJobID", ctx, j.ID()).Return(p, nil).Once()
			u.contractors.On("Get", ctx, member.ID()).Return(member, nil).Once()
			u.contractors.On("Get", ctx, op.ID()).Return(op, nil).Once()
			u.payments.On("Update", ctx, p).Return(nil).Once()
		}

		first := newTestUoW()
		expectReads(first)
		gateway := new(MockPaymentGateway)
		gateway.On("CreateTransfer", mock.Anything, split.DriverPayout(), "acct_member", mock.Anything).
			Return("tr_member", nil).Once()
		gateway.On("CreateTransfer", mock.Anything, split.OperatorPayout(), "acct_operator",
			mock.MatchedBy(func(md map[string]string) bool {
				return md["idempotency_key"] == "payout:"+p.ID().String()+":operator:0"
			})).Return("", errors.New("account restricted")).Once()

		_, err = commands.NewTriggerPayoutCommandHandler(first.factory, gateway, 0, fixedClock{testNow}).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrGateway)
		assert.Equal(t, payment.PayoutFailed, p.PayoutStatus())
		assert.Equal(t, "tr_member", p.TransferID())

		retry := newTestUoW()
		expectReads(retry)
		retry.notifications.On("Add", ctx, mock.Anything).Return(nil).Once()
		gateway.On("CreateTransfer", mock.Anything, split.OperatorPayout(), "acct_operator",
			mock.MatchedBy(func(md map[string]string) bool {
				return md["idempotency_key"] == "payout:"+p.ID().String()+":operator:1"
			})).Return("tr_operator", nil).Once()

		got, err := commands.NewTriggerPayoutCommandHandler(retry.factory, gateway, 0, fixedClock{testNow}).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, payment.PayoutPaid, got.PayoutStatus())
		assert.Equal(t, "tr_member", got.TransferID())
		assert.Equal(t, "tr_operator", got.OperatorTransferID())
		gateway.AssertNumberOfCalls(t, "CreateTransfer", 3)
		gateway.AssertExpectations(t)
		retry.assert(t)
	})
}

func TestTriggerPayoutCommandHandler_Handle_Preconditions(t *testing.T) {
	t.Run("driver without payout account", func(t *testing.T) {
		ctx := t.Context()
		f := newPayoutFixture(t, "")

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.jobs.On("Get", ctx, f.job.ID()).Return(f.job, nil).Once()
		u.payments.On("GetByJobID", ctx, f.job.ID()).Return(f.payment, nil).Once()
		u.contractors.On("Get", ctx, f.driver.ID()).Return(f.driver, nil).Once()
		gateway := new(MockPaymentGateway)

		cmd, err := commands.NewTriggerPayoutCommand(adminActor(), f.job.ID())
		require.NoError(t, err)

		_, err = commands.NewTriggerPayoutCommandHandler(u.factory, gateway, 0, fixedClock{testNow}).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		gateway.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unpaid job", func(t *testing.T) {
		ctx := t.Context()
		j := newPendingJob(t, kernel.NewUUID())

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.jobs.On("Get", ctx, j.ID()).Return(j, nil).Once()
		u.payments.On("GetByJobID", ctx, j.ID()).Return(newPendingPayment(t, j), nil).Once()

		cmd, err := commands.NewTriggerPayoutCommand(adminActor(), j.ID())
		require.NoError(t, err)

		_, err = commands.NewTriggerPayoutCommandHandler(u.factory, new(MockPaymentGateway), 0, fixedClock{testNow}).Handle(ctx, cmd)

		require.ErrorIs(t, err, payment.ErrPaymentNotSucceeded)
	})

	t.Run("operator without payout account", func(t *testing.T) {
		ctx := t.Context()
		op := newApprovedContractor(t, true)
		member := newApprovedContractor(t, false)
		require.NoError(t, member.JoinFleet(op, testNow))
		require.NoError(t, member.SetConnectAccount("acct_member", testNow))

		j := newPendingJob(t, kernel.NewUUID())
		require.NoError(t, j.RouteToOperator(op.ID(), testNow))
		require.NoError(t, j.Delegate(member.ID(), testNow))

		split, err := services.NewSettlementCalculator().Split(j.Price().Total(), 0, op)
		require.NoError(t, err)
		require.Positive(t, int64(split.OperatorPayout()))
		p, err := payment.NewPayment(kernel.NewUUID(), j.ID(), split, 0, testNow)
		require.NoError(t, err)
		_, err = p.MarkSucceeded(testNow)
		require.NoError(t, err)

		u := newTestUoW()
		u.expectAbortedTx(ctx)
		u.jobs.On("Get", ctx, j.ID()).Return(j, nil).Once()
		u.payments.On("GetByJobID", ctx, j.ID()).Return(p, nil).Once()
		u.contractors.On("Get", ctx, member.ID()).Return(member, nil).Once()
		u.contractors.On("Get", ctx, op.ID()).Return(op, nil).Once()
		gateway := new(MockPaymentGateway)

		cmd, err := commands.NewTriggerPayoutCommand(adminActor(), j.ID())
		require.NoError(t, err)

		_, err = commands.NewTriggerPayoutCommandHandler(u.factory, gateway, 0, fixedClock{testNow}).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrConflict)
		gateway.AssertNotCalled(t, "CreateTransfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		u.assert(t)
	})
}
