package queries_test

import (
	"context"
	"time"

	"junkos/internal/adapters/out/postgres/pgtest"
	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/pkg/errs"
)

func (s *QueryHandlersTestSuite) TestGetActor_ResolvesRoleAndContractorProfile() {
	ctx := context.Background()
	handler := queries.NewGetActorQueryHandler(s.pg.DB)

	cust := s.newUser(user.RoleCustomer, "Dana")
	q, err := queries.NewGetActorQuery(cust.UserID)
	s.Require().NoError(err)
	got, err := handler.Handle(ctx, q)
	s.Require().NoError(err)
	s.Equal(user.RoleCustomer, got.Role)
	s.Nil(got.ContractorID)
	s.False(got.IsOperator)

	op, opActor := s.newContractor("Olive", true, nil)
	q, err = queries.NewGetActorQuery(opActor.UserID)
	s.Require().NoError(err)
	got, err = handler.Handle(ctx, q)
	s.Require().NoError(err)
	s.Equal(user.RoleOperator, got.Role)
	s.Require().NotNil(got.ContractorID)
	s.True(got.ContractorID.IsEqual(op.ID()))
	s.True(got.IsOperator)
}

func (s *QueryHandlersTestSuite) TestGetActor_UnknownUser() {
	q, err := queries.NewGetActorQuery(kernel.NewUUID())
	s.Require().NoError(err)

	_, err = queries.NewGetActorQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *QueryHandlersTestSuite) TestGetJob_CustomerSeesJobWithPayment() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	j := s.addJob(cust.UserID, pgtest.Point(26.7153, -80.0534), 0, nil)
	p := s.pay(j, 500, nil, s.now)

	q, err := queries.NewGetJobQuery(cust, j.ID())
	s.Require().NoError(err)

	got, err := queries.NewGetJobQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.True(got.ID.IsEqual(j.ID()))
	s.Equal(job.Pending, got.Status)
	s.Equal(kernel.Money(26892), got.TotalPrice)
	s.Equal(kernel.Money(1992), got.ServiceFee)
	s.Require().Len(got.Items, 1)
	s.Equal("furniture", got.Items[0].Category())
	s.Equal(2, got.Items[0].Quantity())
	s.Require().NotNil(got.Location())
	s.InDelta(26.7153, got.Location().Lat(), 1e-9)
	s.Nil(got.Driver)

	s.Require().NotNil(got.Payment)
	s.True(got.Payment.ID.IsEqual(p.ID()))
	s.Equal(payment.Succeeded, got.Payment.Status)
	s.Equal(kernel.Money(27392), got.Payment.Amount)
	s.Equal(kernel.Money(500), got.Payment.Tip)
}

func (s *QueryHandlersTestSuite) TestGetJob_DriverSummary() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	driver, driverActor := s.newContractor("Sam", false, pgtest.Point(26.70, -80.06))
	j := s.addJob(cust.UserID, nil, 0, func(j *job.Job) {
		s.Require().NoError(j.Assign(driver.ID(), s.now))
	})

	for _, actor := range []struct {
		name string
		q    func() (queries.GetJobQuery, error)
	}{
		{"customer", func() (queries.GetJobQuery, error) { return queries.NewGetJobQuery(cust, j.ID()) }},
		{"driver", func() (queries.GetJobQuery, error) { return queries.NewGetJobQuery(driverActor, j.ID()) }},
		{"admin", func() (queries.GetJobQuery, error) { return queries.NewGetJobQuery(s.admin(), j.ID()) }},
	} {
		q, err := actor.q()
		s.Require().NoError(err, actor.name)

		got, err := queries.NewGetJobQueryHandler(s.pg.DB).Handle(context.Background(), q)

		s.Require().NoError(err, actor.name)
		s.Equal(job.Assigned, got.Status)
		s.Nil(got.Payment)
		s.Require().NotNil(got.Driver, actor.name)
		s.True(got.Driver.ID.IsEqual(driver.ID()))
		s.Equal("Sam", got.Driver.Name)
		s.Equal("box truck", got.Driver.TruckType)
		s.Require().NotNil(got.Driver.Lat)
		s.InDelta(26.70, *got.Driver.Lat, 1e-9)
	}
}

func (s *QueryHandlersTestSuite) TestGetJob_OperatorOfDelegatedJob() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	op, opActor := s.newContractor("Olive", true, nil)
	j := s.addJob(cust.UserID, nil, 0, func(j *job.Job) {
		s.Require().NoError(j.RouteToOperator(op.ID(), s.now))
	})

	q, err := queries.NewGetJobQuery(opActor, j.ID())
	s.Require().NoError(err)

	got, err := queries.NewGetJobQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.Equal(job.Delegating, got.Status)
	s.Require().NotNil(got.OperatorID)
	s.True(got.OperatorID.IsEqual(op.ID()))
}

func (s *QueryHandlersTestSuite) TestGetJob_StrangerIsForbidden() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	j := s.addJob(cust.UserID, nil, 0, nil)
	_, stranger := s.newContractor("Sam", false, nil)

	q, err := queries.NewGetJobQuery(stranger, j.ID())
	s.Require().NoError(err)

	_, err = queries.NewGetJobQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().ErrorIs(err, errs.ErrForbidden)
}

func (s *QueryHandlersTestSuite) TestGetJob_UnknownJob() {
	q, err := queries.NewGetJobQuery(s.admin(), kernel.NewUUID())
	s.Require().NoError(err)

	_, err = queries.NewGetJobQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *QueryHandlersTestSuite) TestGetJob_InvalidQuery() {
	_, err := queries.NewGetJobQueryHandler(s.pg.DB).Handle(context.Background(), queries.GetJobQuery{})

	s.Require().Error(err)
	s.Contains(err.Error(), "must be created via NewGetJobQuery constructor")
}

func (s *QueryHandlersTestSuite) TestListCustomerJobs_PagesNewestFirst() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	other := s.newUser(user.RoleCustomer, "Eli")
	oldest := s.addJob(cust.UserID, nil, -3*time.Minute, nil)
	middle := s.addJob(cust.UserID, nil, -2*time.Minute, nil)
	newest := s.addJob(cust.UserID, nil, -time.Minute, nil)
	s.addJob(other.UserID, nil, 0, nil)

	handler := queries.NewListCustomerJobsQueryHandler(s.pg.DB)

	q, err := queries.NewListCustomerJobsQuery(cust, nil, queries.NewPagination(1, 2))
	s.Require().NoError(err)
	first, err := handler.Handle(context.Background(), q)
	s.Require().NoError(err)
	s.Equal(int64(3), first.Total)
	s.Equal(2, first.Pages)
	s.Require().Len(first.Items, 2)
	s.True(first.Items[0].ID.IsEqual(newest.ID()))
	s.True(first.Items[1].ID.IsEqual(middle.ID()))

	q, err = queries.NewListCustomerJobsQuery(cust, nil, queries.NewPagination(2, 2))
	s.Require().NoError(err)
	second, err := handler.Handle(context.Background(), q)
	s.Require().NoError(err)
	s.Equal(2, second.Page)
	s.Require().Len(second.Items, 1)
	s.True(second.Items[0].ID.IsEqual(oldest.ID()))
}

func (s *QueryHandlersTestSuite) TestListCustomerJobs_StatusFilter() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	cancelled := s.addJob(cust.UserID, nil, 0, func(j *job.Job) {
		s.Require().NoError(j.CancelByCustomer(s.now))
	})
	s.addJob(cust.UserID, nil, 0, nil)

	status := job.Cancelled
	q, err := queries.NewListCustomerJobsQuery(cust, &status, queries.Pagination{})
	s.Require().NoError(err)

	got, err := queries.NewListCustomerJobsQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.True(got.Items[0].ID.IsEqual(cancelled.ID()))
}

func (s *QueryHandlersTestSuite) TestListCustomerJobs_EmptyDatabase() {
	q, err := queries.NewListCustomerJobsQuery(s.newUser(user.RoleCustomer, "Dana"), nil, queries.Pagination{})
	s.Require().NoError(err)

	got, err := queries.NewListCustomerJobsQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.NotNil(got.Items)
	s.Empty(got.Items)
	s.Zero(got.Pages)
}

func (s *QueryHandlersTestSuite) TestListJobs_AdminOnly() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	s.addJob(cust.UserID, nil, 0, nil)
	s.addJob(s.newUser(user.RoleCustomer, "Eli").UserID, nil, 0, nil)
	handler := queries.NewListJobsQueryHandler(s.pg.DB)

	q, err := queries.NewListJobsQuery(cust, nil, queries.Pagination{})
	s.Require().NoError(err)
	_, err = handler.Handle(context.Background(), q)
	s.Require().ErrorIs(err, errs.ErrForbidden)

	q, err = queries.NewListJobsQuery(s.admin(), nil, queries.Pagination{})
	s.Require().NoError(err)
	got, err := handler.Handle(context.Background(), q)
	s.Require().NoError(err)
	s.Equal(int64(2), got.Total)
	s.Len(got.Items, 2)
}

func (s *QueryHandlersTestSuite) TestListJobs_ContextCancellation() {
	s.addJob(s.newUser(user.RoleCustomer, "Dana").UserID, nil, 0, nil)
	q, err := queries.NewListJobsQuery(s.admin(), nil, queries.Pagination{})
	s.Require().NoError(err)

	_, err = queries.NewListJobsQueryHandler(s.pg.DB).Handle(s.cancelledContext(), q)

	s.Require().Error(err)
}

func (s *QueryHandlersTestSuite) TestListAvailableJobs_RanksPendingJobsByDistance() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	_, driver := s.newContractor("Sam", false, pgtest.Point(26.7153, -80.0534))

	farther := s.addJob(cust.UserID, pgtest.Point(26.6400, -80.0900), -3*time.Minute, nil)
	nearest := s.addJob(cust.UserID, pgtest.Point(26.7200, -80.0500), -2*time.Minute, nil)
	unlocated := s.addJob(cust.UserID, nil, -4*time.Minute, nil)
	s.addJob(cust.UserID, pgtest.Point(27.9506, -82.4572), -time.Minute, nil) // Tampa, out of range
	s.addJob(cust.UserID, pgtest.Point(26.7153, -80.0534), 0, func(j *job.Job) {
		s.Require().NoError(j.CancelByCustomer(s.now))
	})

	q, err := queries.NewListAvailableJobsQuery(driver, 0)
	s.Require().NoError(err)

	got, err := queries.NewListAvailableJobsQueryHandler(s.pg.DB, 0).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.True(got[0].ID.IsEqual(nearest.ID()))
	s.True(got[1].ID.IsEqual(farther.ID()))
	s.True(got[2].ID.IsEqual(unlocated.ID()))
	s.Require().NotNil(got[0].DistanceKm)
	s.Require().NotNil(got[1].DistanceKm)
	s.Less(*got[0].DistanceKm, *got[1].DistanceKm)
	s.Nil(got[2].DistanceKm)
}

func (s *QueryHandlersTestSuite) TestListAvailableJobs_RadiusOverride() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	_, driver := s.newContractor("Sam", false, pgtest.Point(26.7153, -80.0534))
	s.addJob(cust.UserID, pgtest.Point(26.6400, -80.0900), 0, nil)

	q, err := queries.NewListAvailableJobsQuery(driver, 1)
	s.Require().NoError(err)

	got, err := queries.NewListAvailableJobsQueryHandler(s.pg.DB, 0).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.Empty(got)
}

func (s *QueryHandlersTestSuite) TestListAvailableJobs_RequiresApprovedContractor() {
	ctx := context.Background()
	handler := queries.NewListAvailableJobsQueryHandler(s.pg.DB, 0)

	q, err := queries.NewListAvailableJobsQuery(s.newUser(user.RoleCustomer, "Dana"), 0)
	s.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	s.Require().ErrorIs(err, errs.ErrForbidden)

	c, actor := s.newContractor("Sam", false, nil)
	c.Suspend(s.now)
	s.Require().NoError(s.contractors.Update(ctx, c))

	q, err = queries.NewListAvailableJobsQuery(actor, 0)
	s.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	s.Require().ErrorIs(err, contractor.ErrNotApproved)
}
