package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	postgres_adapter "junkos/internal/adapters/out/postgres"
	"junkos/internal/adapters/out/postgres/pgtest"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/core/domain/services"
	"junkos/internal/core/ports"
	"junkos/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

// UnitOfWorkIntegrationTestSuite runs the unit of work against a real
// PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	factory ports.UnitOfWorkFactory
	now     time.Time
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(pg.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) newJobWithPayment() (*job.Job, *payment.Payment) {
	customerID, err := pgtest.InsertUser(context.Background(), suite.pg.DB, user.RoleCustomer, "Dana")
	suite.Require().NoError(err)
	j, err := pgtest.NewJob(customerID, pgtest.Point(26.7153, -80.0534), suite.now)
	suite.Require().NoError(err)

	split, err := services.NewSettlementCalculator().Split(j.Price().Total(), 0, nil)
	suite.Require().NoError(err)
	p, err := payment.NewPayment(kernel.NewUUID(), j.ID(), split, 0, suite.now)
	suite.Require().NoError(err)
	return j, p
}

func (suite *UnitOfWorkIntegrationTestSuite) newContractor() *contractor.Contractor {
	userID, err := pgtest.InsertUser(context.Background(), suite.pg.DB, user.RoleDriver, "Sam")
	suite.Require().NoError(err)
	c, err := pgtest.NewApprovedContractor(userID, false, nil, suite.now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.ContractorRepository().Add(context.Background(), c))
	return c
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesSeparateInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.JobRepository())
	suite.NotNil(uow2.PaymentRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin does not nest")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().NoError(uow.Rollback(ctx), "rollback after commit is a no-op")

	suite.Require().Error(uow.Commit(ctx), "commit without a transaction")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	j, p := suite.newJobWithPayment()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.JobRepository().Add(ctx, j))
	suite.Require().NoError(uow.PaymentRepository().Add(ctx, p))
	suite.Require().NoError(uow.Commit(ctx))

	reader := suite.factory.Create()
	got, err := reader.JobRepository().Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal(kernel.Money(26892), got.Price().Total())

	gotPayment, err := reader.PaymentRepository().GetByJobID(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal(p.ID(), gotPayment.ID())
	suite.Equal(p.Split(), gotPayment.Split())

	tracked, ok := uow.(*postgres_adapter.GormUnitOfWork)
	suite.Require().True(ok)
	suite.Equal(2, tracked.TrackedCount())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsEverything() {
	ctx := context.Background()
	j, p := suite.newJobWithPayment()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.JobRepository().Add(ctx, j))
	suite.Require().NoError(uow.PaymentRepository().Add(ctx, p))
	_, err := uow.JobRepository().Get(ctx, j.ID())
	suite.Require().NoError(err, "visible inside the transaction")
	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	_, err = reader.JobRepository().Get(ctx, j.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = reader.PaymentRepository().GetByJobID(ctx, j.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSecondPaymentForJobIsConflict() {
	ctx := context.Background()
	j, p := suite.newJobWithPayment()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.JobRepository().Add(ctx, j))
	suite.Require().NoError(uow.PaymentRepository().Add(ctx, p))

	again, err := payment.NewPayment(kernel.NewUUID(), j.ID(), p.Split(), 0, suite.now)
	suite.Require().NoError(err)

	err = uow.PaymentRepository().Add(ctx, again)
	suite.Require().ErrorIs(err, errs.ErrConflict)
}

// Every contender reads the pending job and tries to claim it in its own
// transaction; the conditional update lets exactly one through.
func (suite *UnitOfWorkIntegrationTestSuite) TestAcceptPending_ConcurrentContendersHaveOneWinner() {
	const contenders = 8
	ctx := context.Background()

	j, _ := suite.newJobWithPayment()
	suite.Require().NoError(suite.factory.Create().JobRepository().Add(ctx, j))

	drivers := make([]*contractor.Contractor, contenders)
	for i := range drivers {
		drivers[i] = suite.newContractor()
	}

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		results   = make([]error, contenders)
		winnerIdx = -1
	)
	for i := range contenders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			uow := suite.factory.Create()
			if err := uow.Begin(ctx); err != nil {
				results[i] = err
				return
			}
			defer func() { _ = uow.Rollback(ctx) }()

			if err := uow.JobRepository().AcceptPending(ctx, j.ID(), drivers[i].ID(), time.Now().UTC()); err != nil {
				results[i] = err
				return
			}
			results[i] = uow.Commit(ctx)
		}(i)
	}
	close(start)
	wg.Wait()

	winners := 0
	for i, err := range results {
		if err == nil {
			winners++
			winnerIdx = i
			continue
		}
		suite.True(errors.Is(err, errs.ErrConflict), "contender %d: %v", i, err)
	}
	suite.Require().Equal(1, winners)

	got, err := suite.factory.Create().JobRepository().Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Accepted, got.Status())
	suite.Require().NotNil(got.DriverID())
	suite.Equal(drivers[winnerIdx].ID(), *got.DriverID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestGetForUpdate_SerializesWriters() {
	ctx := context.Background()
	j, _ := suite.newJobWithPayment()
	suite.Require().NoError(suite.factory.Create().JobRepository().Add(ctx, j))
	driver := suite.newContractor()

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	defer func() { _ = first.Rollback(ctx) }()
	held, err := first.JobRepository().GetForUpdate(ctx, j.ID())
	suite.Require().NoError(err)

	secondDone := make(chan error, 1)
	go func() {
		second := suite.factory.Create()
		if err := second.Begin(ctx); err != nil {
			secondDone <- err
			return
		}
		defer func() { _ = second.Rollback(ctx) }()
		_, err := second.JobRepository().GetForUpdate(ctx, j.ID())
		secondDone <- err
	}()

	select {
	case <-secondDone:
		suite.Fail("second writer acquired the row while it was locked")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(held.Assign(driver.ID(), suite.now))
	suite.Require().NoError(first.JobRepository().Update(ctx, held))
	suite.Require().NoError(first.Commit(ctx))

	select {
	case err = <-secondDone:
		suite.Require().NoError(err)
	case <-time.After(5 * time.Second):
		suite.Fail("second writer never acquired the row")
	}
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
