package commands_test

import (
	"context"
	"testing"
	"time"

	"junkos/internal/core/application/dispatch"
	"junkos/internal/core/application/usecases/commands"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/invite"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/notification"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/model/pricing"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockJobRepository) Update(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*job.Job)
	return j, args.Error(1)
}

func (m *MockJobRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	j, _ := args.Get(0).(*job.Job)
	return j, args.Error(1)
}

func (m *MockJobRepository) AcceptPending(ctx context.Context, id, contractorID kernel.UUID, now time.Time) error {
	return m.Called(ctx, id, contractorID, now).Error(0)
}

func (m *MockJobRepository) FindActiveByDriver(ctx context.Context, contractorID kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, contractorID)
	j, _ := args.Get(0).(*job.Job)
	return j, args.Error(1)
}

type MockContractorRepository struct{ mock.Mock }

func (m *MockContractorRepository) Add(ctx context.Context, c *contractor.Contractor) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractorRepository) Update(ctx context.Context, c *contractor.Contractor) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractorRepository) Get(ctx context.Context, id kernel.UUID) (*contractor.Contractor, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*contractor.Contractor)
	return c, args.Error(1)
}

func (m *MockContractorRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*contractor.Contractor, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*contractor.Contractor)
	return c, args.Error(1)
}

func (m *MockContractorRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*contractor.Contractor, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(*contractor.Contractor)
	return c, args.Error(1)
}

func (m *MockContractorRepository) ListAvailable(ctx context.Context) ([]*contractor.Contractor, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]*contractor.Contractor)
	return cs, args.Error(1)
}

func (m *MockContractorRepository) ListOnlineNotSeenSince(ctx context.Context, cutoff time.Time) ([]*contractor.Contractor, error) {
	args := m.Called(ctx, cutoff)
	cs, _ := args.Get(0).([]*contractor.Contractor)
	return cs, args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) GetByJobID(ctx context.Context, jobID kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, jobID)
	p, _ := args.Get(0).(*payment.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentRepository) GetByIntentID(ctx context.Context, intentID string) (*payment.Payment, error) {
	args := m.Called(ctx, intentID)
	p, _ := args.Get(0).(*payment.Payment)
	return p, args.Error(1)
}

type MockPricingRepository struct{ mock.Mock }

func (m *MockPricingRepository) ListRules(ctx context.Context) ([]*pricing.Rule, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]*pricing.Rule)
	return rs, args.Error(1)
}

func (m *MockPricingRepository) GetRuleByCategory(ctx context.Context, category string) (*pricing.Rule, error) {
	args := m.Called(ctx, category)
	r, _ := args.Get(0).(*pricing.Rule)
	return r, args.Error(1)
}

func (m *MockPricingRepository) SaveRule(ctx context.Context, r *pricing.Rule) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockPricingRepository) ListSurgeZones(ctx context.Context) ([]*pricing.SurgeZone, error) {
	args := m.Called(ctx)
	zs, _ := args.Get(0).([]*pricing.SurgeZone)
	return zs, args.Error(1)
}

func (m *MockPricingRepository) GetSurgeZone(ctx context.Context, id kernel.UUID) (*pricing.SurgeZone, error) {
	args := m.Called(ctx, id)
	z, _ := args.Get(0).(*pricing.SurgeZone)
	return z, args.Error(1)
}

func (m *MockPricingRepository) SaveSurgeZone(ctx context.Context, z *pricing.SurgeZone) error {
	return m.Called(ctx, z).Error(0)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, ns ...*notification.Notification) error {
	return m.Called(ctx, ns).Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*notification.Notification)
	return n, args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockInviteRepository struct{ mock.Mock }

func (m *MockInviteRepository) Add(ctx context.Context, i *invite.Invite) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInviteRepository) Update(ctx context.Context, i *invite.Invite) error {
	return m.Called(ctx, i).Error(0)
}

func (m *MockInviteRepository) Get(ctx context.Context, id kernel.UUID) (*invite.Invite, error) {
	args := m.Called(ctx, id)
	i, _ := args.Get(0).(*invite.Invite)
	return i, args.Error(1)
}

func (m *MockInviteRepository) GetByCode(ctx context.Context, code string) (*invite.Invite, error) {
	args := m.Called(ctx, code)
	i, _ := args.Get(0).(*invite.Invite)
	return i, args.Error(1)
}

func (m *MockInviteRepository) ListActive(ctx context.Context) ([]*invite.Invite, error) {
	args := m.Called(ctx)
	is, _ := args.Get(0).([]*invite.Invite)
	return is, args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) JobRepository() ports.JobRepository {
	return m.Called().Get(0).(ports.JobRepository)
}

func (m *MockUoW) ContractorRepository() ports.ContractorRepository {
	return m.Called().Get(0).(ports.ContractorRepository)
}

func (m *MockUoW) PaymentRepository() ports.PaymentRepository {
	return m.Called().Get(0).(ports.PaymentRepository)
}

func (m *MockUoW) PricingRepository() ports.PricingRepository {
	return m.Called().Get(0).(ports.PricingRepository)
}

func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	return m.Called().Get(0).(ports.NotificationRepository)
}

func (m *MockUoW) InviteRepository() ports.InviteRepository {
	return m.Called().Get(0).(ports.InviteRepository)
}

func (m *MockUoW) UserRepository() ports.UserRepository {
	return m.Called().Get(0).(ports.UserRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	return m.Called().Get(0).(commands.UoW)
}

type MockFlusher struct{ mock.Mock }

func (m *MockFlusher) Flush(ctx context.Context, b *dispatch.Batch) {
	m.Called(ctx, b)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreatePaymentIntent(
	ctx context.Context,
	amount kernel.Money,
	currency string,
	metadata map[string]string,
) (ports.PaymentIntent, error) {
	args := m.Called(ctx, amount, currency, metadata)
	return args.Get(0).(ports.PaymentIntent), args.Error(1)
}

func (m *MockPaymentGateway) IntentSucceeded(ctx context.Context, intentID string) (bool, error) {
	args := m.Called(ctx, intentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentGateway) CreateTransfer(
	ctx context.Context,
	amount kernel.Money,
	destination string,
	metadata map[string]string,
) (string, error) {
	args := m.Called(ctx, amount, destination, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) ParseEvent(payload []byte, signature string) (ports.ProviderEvent, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(ports.ProviderEvent), args.Error(1)
}

type MockKVStore struct{ mock.Mock }

func (m *MockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockKVStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockPhotoStorage struct{ mock.Mock }

func (m *MockPhotoStorage) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, string, error) {
	args := m.Called(ctx, key, contentType, ttl)
	return args.String(0), args.String(1), args.Error(2)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

// testUoW wires a MockUoW to one mock of every repository. Repository
// getters may be called any number of times; tests pin Begin, Commit,
// Rollback and the repository calls they care about.
type testUoW struct {
	uow           *MockUoW
	factory       *MockUoWFactory
	jobs          *MockJobRepository
	contractors   *MockContractorRepository
	payments      *MockPaymentRepository
	pricing       *MockPricingRepository
	notifications *MockNotificationRepository
	invites       *MockInviteRepository
	users         *MockUserRepository
}

func newTestUoW() *testUoW {
	u := &testUoW{
		uow:           new(MockUoW),
		factory:       new(MockUoWFactory),
		jobs:          new(MockJobRepository),
		contractors:   new(MockContractorRepository),
		payments:      new(MockPaymentRepository),
		pricing:       new(MockPricingRepository),
		notifications: new(MockNotificationRepository),
		invites:       new(MockInviteRepository),
		users:         new(MockUserRepository),
	}
	u.factory.On("Create").Return(u.uow)
	u.uow.On("JobRepository").Return(u.jobs).Maybe()
	u.uow.On("ContractorRepository").Return(u.contractors).Maybe()
	u.uow.On("PaymentRepository").Return(u.payments).Maybe()
	u.uow.On("PricingRepository").Return(u.pricing).Maybe()
	u.uow.On("NotificationRepository").Return(u.notifications).Maybe()
	u.uow.On("InviteRepository").Return(u.invites).Maybe()
	u.uow.On("UserRepository").Return(u.users).Maybe()
	return u
}

// expectTx pins a transaction that commits.
func (u *testUoW) expectTx(ctx context.Context) {
	u.uow.On("Begin", ctx).Return(nil)
	u.uow.On("Commit", ctx).Return(nil)
	u.uow.On("Rollback", ctx).Return(nil)
}

// expectAbortedTx pins a transaction that only rolls back.
func (u *testUoW) expectAbortedTx(ctx context.Context) {
	u.uow.On("Begin", ctx).Return(nil)
	u.uow.On("Rollback", ctx).Return(nil)
}

func (u *testUoW) assert(t *testing.T) {
	t.Helper()
	u.uow.AssertExpectations(t)
	u.jobs.AssertExpectations(t)
	u.contractors.AssertExpectations(t)
	u.payments.AssertExpectations(t)
	u.pricing.AssertExpectations(t)
	u.notifications.AssertExpectations(t)
	u.invites.AssertExpectations(t)
	u.users.AssertExpectations(t)
}

func adminActor() services.Actor {
	return services.Actor{UserID: kernel.NewUUID(), Role: user.RoleAdmin}
}

func customerActor(id kernel.UUID) services.Actor {
	return services.Actor{UserID: id, Role: user.RoleCustomer}
}

func contractorActor(c *contractor.Contractor) services.Actor {
	id := c.ID()
	return services.Actor{UserID: c.UserID(), Role: user.RoleDriver, ContractorID: &id, IsOperator: c.IsOperator()}
}

func newUser(t *testing.T, id kernel.UUID, role user.Role) *user.User {
	t.Helper()
	u, err := user.RestoreUser(id, role, "Dana Doe", "dana@example.com", "+15615550100")
	require.NoError(t, err)
	return u
}

func newPendingJob(t *testing.T, customerID kernel.UUID) *job.Job {
	t.Helper()
	item, err := job.NewLineItem("furniture", 2, nil)
	require.NoError(t, err)
	price, err := job.NewPriceBreakdown(9900, 15000, 0, 1.0, 0.08)
	require.NoError(t, err)
	loc, err := kernel.NewGeoPoint(26.7153, -80.0534)
	require.NoError(t, err)

	j, err := job.NewJob(job.NewJobParams{
		ID:         kernel.NewUUID(),
		CustomerID: customerID,
		Address:    "100 Clematis St, West Palm Beach",
		Location:   &loc,
		Items:      []job.LineItem{item},
		Price:      price,
		Now:        testNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return j
}

func newApprovedContractor(t *testing.T, isOperator bool) *contractor.Contractor {
	t.Helper()
	c, err := contractor.NewContractor(kernel.NewUUID(), kernel.NewUUID(), "box_truck", isOperator, testNow.Add(-48*time.Hour))
	require.NoError(t, err)
	c.Approve(testNow.Add(-24 * time.Hour))
	return c
}

func newPendingPayment(t *testing.T, j *job.Job) *payment.Payment {
	t.Helper()
	split, err := services.NewSettlementCalculator().Split(j.Price().Total(), 0, nil)
	require.NoError(t, err)
	p, err := payment.NewPayment(kernel.NewUUID(), j.ID(), split, 0, testNow.Add(-time.Hour))
	require.NoError(t, err)
	return p
}

// batchOf captures the batch handed to the flusher.
func batchOf(f *MockFlusher) *dispatch.Batch {
	for _, c := range f.Calls {
		if c.Method == "Flush" {
			return c.Arguments.Get(1).(*dispatch.Batch)
		}
	}
	return nil
}

func eventsOf(b *dispatch.Batch) []string {
	out := make([]string, 0, len(b.Live))
	for _, e := range b.Live {
		out = append(out, e.Room+" "+e.Event)
	}
	return out
}
