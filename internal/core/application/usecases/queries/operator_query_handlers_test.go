package queries_test

import (
	"context"
	"time"

	"junkos/internal/core/application/usecases/queries"
	"junkos/internal/core/domain/model/contractor"
	"junkos/internal/core/domain/model/job"
	"junkos/internal/core/domain/model/kernel"
	"junkos/internal/core/domain/model/payment"
	"junkos/internal/core/domain/model/user"
	"junkos/internal/pkg/errs"
)

const day = 24 * time.Hour

// delegatedJob stores a job routed to op and handed to member, moved on to
// status when it is past assigned.
func (s *QueryHandlersTestSuite) delegatedJob(customerID kernel.UUID, op, member *contractor.Contractor, status job.Status) *job.Job {
	return s.addJob(customerID, nil, 0, func(j *job.Job) {
		s.Require().NoError(j.RouteToOperator(op.ID(), s.now))
		if member == nil {
			return
		}
		s.Require().NoError(j.Delegate(member.ID(), s.now))
		for _, next := range []job.Status{job.EnRoute, job.Arrived, job.Started, job.Completed} {
			if j.Status() == status {
				return
			}
			s.Require().NoError(j.TransitionTo(next, nil, s.now))
		}
	})
}

func (s *QueryHandlersTestSuite) TestGetFleet_OrderedByName() {
	op, opActor := s.newContractor("Olive", true, nil)
	zed := s.joinFleet(op, "Zed")
	ana := s.joinFleet(op, "Ana")
	s.newContractor("Sam", false, nil)

	q, err := queries.NewGetFleetQuery(opActor)
	s.Require().NoError(err)

	got, err := queries.NewGetFleetQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(got[0].ID.IsEqual(ana.ID()))
	s.Equal("Ana", got[0].Name)
	s.True(got[1].ID.IsEqual(zed.ID()))
	s.Equal(contractor.Approved, got[1].ApprovalStatus)
	s.True(got[1].IsOnline)
}

func (s *QueryHandlersTestSuite) TestGetFleet_RequiresOperator() {
	_, driver := s.newContractor("Sam", false, nil)
	q, err := queries.NewGetFleetQuery(driver)
	s.Require().NoError(err)

	_, err = queries.NewGetFleetQueryHandler(s.pg.DB).Handle(context.Background(), q)

	s.Require().ErrorIs(err, errs.ErrForbidden)
}

func (s *QueryHandlersTestSuite) TestListOperatorJobs_Filters() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	op, opActor := s.newContractor("Olive", true, nil)
	member := s.joinFleet(op, "Ana")

	waiting := s.delegatedJob(cust.UserID, op, nil, job.Delegating)
	active := s.delegatedJob(cust.UserID, op, member, job.Assigned)
	done := s.delegatedJob(cust.UserID, op, member, job.Completed)
	s.addJob(cust.UserID, nil, 0, nil)

	handler := queries.NewListOperatorJobsQueryHandler(s.pg.DB)
	list := func(f queries.OperatorJobFilter) queries.Page[queries.OperatorJob] {
		q, err := queries.NewListOperatorJobsQuery(opActor, f, queries.Pagination{})
		s.Require().NoError(err)
		page, err := handler.Handle(context.Background(), q)
		s.Require().NoError(err)
		return page
	}

	all := list(queries.OperatorJobsAll)
	s.Equal(int64(3), all.Total)

	delegating := list(queries.OperatorJobsDelegating)
	s.Require().Len(delegating.Items, 1)
	s.True(delegating.Items[0].ID.IsEqual(waiting.ID()))
	s.Empty(delegating.Items[0].DriverName)
	s.Equal("Dana", delegating.Items[0].CustomerName)

	activeJobs := list(queries.OperatorJobsActive)
	s.Require().Len(activeJobs.Items, 1)
	s.True(activeJobs.Items[0].ID.IsEqual(active.ID()))
	s.Equal("Ana", activeJobs.Items[0].DriverName)
	s.Require().NotNil(activeJobs.Items[0].DelegatedAt)

	completed := list(queries.OperatorJobsCompleted)
	s.Require().Len(completed.Items, 1)
	s.True(completed.Items[0].ID.IsEqual(done.ID()))
	s.NotNil(completed.Items[0].CompletedAt)
}

func (s *QueryHandlersTestSuite) TestGetOperatorDashboard() {
	ctx := context.Background()
	cust := s.newUser(user.RoleCustomer, "Dana")
	op, opActor := s.newContractor("Olive", true, nil)
	member := s.joinFleet(op, "Ana")
	offline := s.joinFleet(op, "Zed")
	s.Require().NoError(offline.SetAvailability(false, s.now))
	s.Require().NoError(s.contractors.Update(ctx, offline))

	s.delegatedJob(cust.UserID, op, nil, job.Delegating)
	recent := s.pay(s.delegatedJob(cust.UserID, op, member, job.Completed), 0, op, s.now.Add(-2*day))
	s.pay(s.delegatedJob(cust.UserID, op, member, job.Completed), 0, op, s.now.Add(-40*day))

	q, err := queries.NewGetOperatorDashboardQuery(opActor)
	s.Require().NoError(err)

	got, err := queries.NewGetOperatorDashboardQueryHandler(s.pg.DB, s.clock()).Handle(ctx, q)

	s.Require().NoError(err)
	s.Equal(2, got.FleetSize)
	s.Equal(1, got.OnlineCount)
	s.Equal(1, got.PendingDelegation)
	s.Positive(int64(recent.Split().OperatorPayout()))
	s.Equal(recent.Split().OperatorPayout(), got.Earnings30d)
}

func (s *QueryHandlersTestSuite) TestGetOperatorEarnings_GroupsByContractor() {
	cust := s.newUser(user.RoleCustomer, "Dana")
	op, opActor := s.newContractor("Olive", true, nil)
	ana := s.joinFleet(op, "Ana")
	zed := s.joinFleet(op, "Zed")

	a1 := s.pay(s.delegatedJob(cust.UserID, op, ana, job.Completed), 0, op, s.now.Add(-2*day))
	a2 := s.pay(s.delegatedJob(cust.UserID, op, ana, job.Completed), 0, op, s.now.Add(-10*day))
	z1 := s.pay(s.delegatedJob(cust.UserID, op, zed, job.Completed), 0, op, s.now.Add(-60*day))

	q, err := queries.NewGetOperatorEarningsQuery(opActor)
	s.Require().NoError(err)

	got, err := queries.NewGetOperatorEarningsQueryHandler(s.pg.DB, s.clock()).Handle(context.Background(), q)

	s.Require().NoError(err)
	share := func(p *payment.Payment) kernel.Money { return p.Split().OperatorPayout() }
	anaTotal := share(a1) + share(a2)
	s.Equal(anaTotal+share(z1), got.Total)
	s.Equal(anaTotal, got.Last30d)
	s.Equal(share(a1), got.Last7d)

	s.Require().Len(got.PerContractor, 2)
	s.True(got.PerContractor[0].ContractorID.IsEqual(ana.ID()))
	s.Equal("Ana", got.PerContractor[0].Name)
	s.Equal(anaTotal, got.PerContractor[0].Commission)
	s.Equal(2, got.PerContractor[0].Jobs)
	s.True(got.PerContractor[1].ContractorID.IsEqual(zed.ID()))
}

func (s *QueryHandlersTestSuite) TestGetOperatorEarnings_NoEarnings() {
	_, opActor := s.newContractor("Olive", true, nil)
	q, err := queries.NewGetOperatorEarningsQuery(opActor)
	s.Require().NoError(err)

	got, err := queries.NewGetOperatorEarningsQueryHandler(s.pg.DB, s.clock()).Handle(context.Background(), q)

	s.Require().NoError(err)
	s.Zero(got.Total)
	s.NotNil(got.PerContractor)
	s.Empty(got.PerContractor)
}

func (s *QueryHandlersTestSuite) TestGetContractorEarnings() {
	ctx := context.Background()
	cust := s.newUser(user.RoleCustomer, "Dana")
	driver, driverActor := s.newContractor("Sam", false, nil)
	driver.CompleteJob(s.now)
	driver.CompleteJob(s.now)
	s.Require().NoError(s.contractors.Update(ctx, driver))

	assigned := func() *job.Job {
		return s.addJob(cust.UserID, nil, 0, func(j *job.Job) {
			s.Require().NoError(j.Assign(driver.ID(), s.now))
		})
	}
	recent := s.pay(assigned(), 500, nil, s.now.Add(-day))
	old := s.pay(assigned(), 0, nil, s.now.Add(-45*day))
	s.Require().NoError(old.MarkPayoutPaid("tr_old", "", s.now))
	s.Require().NoError(s.payments.Update(ctx, old))

	q, err := queries.NewGetContractorEarningsQuery(driverActor)
	s.Require().NoError(err)

	got, err := queries.NewGetContractorEarningsQueryHandler(s.pg.DB, s.clock()).Handle(ctx, q)

	s.Require().NoError(err)
	s.Equal(recent.Split().DriverPayout()+old.Split().DriverPayout(), got.TotalEarnings)
	s.Equal(kernel.Money(500), got.TotalTips)
	s.Equal(recent.Split().DriverPayout(), got.Last30d)
	s.Equal(recent.Split().DriverPayout(), got.Last7d)
	s.Equal(recent.Split().DriverPayout(), got.PendingPayout)
	s.Equal(2, got.TotalJobs)
}

func (s *QueryHandlersTestSuite) TestGetContractorEarnings_UnknownContractor() {
	actor := s.newUser(user.RoleDriver, "Sam")
	ghost := kernel.NewUUID()
	actor.ContractorID = &ghost

	q, err := queries.NewGetContractorEarningsQuery(actor)
	s.Require().NoError(err)

	_, err = queries.NewGetContractorEarningsQueryHandler(s.pg.DB, s.clock()).Handle(context.Background(), q)

	s.Require().ErrorIs(err, errs.ErrObjectNotFound)
}
