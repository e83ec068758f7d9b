package service_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AttendeeReader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ubersystem/internal/platform/config"
	regmodels "ubersystem/internal/registration/models"
	regservice "ubersystem/internal/registration/service"
	regstore "ubersystem/internal/registration/store"
	"ubersystem/internal/staffing/metrics"
	"ubersystem/internal/staffing/models"
	"ubersystem/internal/staffing/service"
	"ubersystem/internal/staffing/service/mocks"
	"ubersystem/internal/staffing/store"
	"ubersystem/internal/storage"
	trackingmodels "ubersystem/internal/tracking/models"
	trackingservice "ubersystem/internal/tracking/service"
	trackingstore "ubersystem/internal/tracking/store"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/enumset"
	"ubersystem/pkg/testutil"
)

type StaffingSuite struct {
	suite.Suite
	attendees *regstore.AttendeeMemory
	groups    *regstore.GroupMemory
	jobs      *store.JobMemory
	shifts    *store.ShiftMemory
	trail     *trackingstore.InMemory
	tx        *storage.MemoryTx
	tracker   *trackingservice.Service
	metrics   *metrics.Metrics
	svc       *service.Service
	ctx       context.Context
	day       time.Time
}

func TestStaffingSuite(t *testing.T) {
	suite.Run(t, new(StaffingSuite))
}

func (s *StaffingSuite) SetupTest() {
	s.attendees = regstore.NewAttendeeMemory()
	s.groups = regstore.NewGroupMemory()
	s.jobs = store.NewJobMemory()
	s.shifts = store.NewShiftMemory()
	s.trail = trackingstore.NewInMemory()
	s.tx = storage.NewMemoryTx(s.trail, s.attendees, s.groups, s.jobs, s.shifts)
	s.metrics = metrics.New(prometheus.NewRegistry())

	var err error
	s.tracker, err = trackingservice.New(s.trail)
	s.Require().NoError(err)
	s.svc = s.newService(s.attendees)
	s.day = testutil.Date(2015, time.January, 3, 0)
	s.ctx = testutil.WorkerContext("test-worker", testutil.Date(2015, time.January, 2, 12))
}

func (s *StaffingSuite) newService(attendees service.AttendeeReader) *service.Service {
	svc, err := service.New(s.tx, s.jobs, s.shifts, attendees, s.tracker,
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithMetrics(s.metrics),
	)
	s.Require().NoError(err)
	return svc
}

func (s *StaffingSuite) staffer(first, last string, trusted bool, depts ...regmodels.Dept) *regmodels.Attendee {
	a := &regmodels.Attendee{
		FirstName:     first,
		LastName:      last,
		AgeGroup:      regmodels.Over21,
		Paid:          regmodels.HasPaid,
		Staffing:      true,
		Trusted:       trusted,
		AssignedDepts: enumset.Of(depts...),
	}
	s.Require().NoError(s.attendees.Insert(s.ctx, a))
	return a
}

func (s *StaffingSuite) job(name string, loc regmodels.Dept, startHour, duration, slots int) *models.Job {
	j := &models.Job{
		Name:      name,
		Location:  loc,
		StartTime: s.day.Add(time.Duration(startHour) * time.Hour),
		Duration:  duration,
		Weight:    1,
		Slots:     slots,
	}
	s.Require().NoError(s.svc.SaveJob(s.ctx, j))
	return j
}

func jobIDs(jobs []*models.Job) []id.JobID {
	out := make([]id.JobID, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func (s *StaffingSuite) history(model string, fkID int64) []*trackingmodels.Tracking {
	rows, err := s.tracker.History(s.ctx, model, fkID)
	s.Require().NoError(err)
	return rows
}

func (s *StaffingSuite) TestNew() {
	_, err := service.New(nil, s.jobs, s.shifts, s.attendees, s.tracker)
	s.EqualError(err, "transaction runner is required")
	_, err = service.New(s.tx, s.jobs, s.shifts, nil, s.tracker)
	s.EqualError(err, "attendee reader is required")
	_, err = service.New(s.tx, s.jobs, s.shifts, s.attendees, nil)
	s.EqualError(err, "tracker is required")
}

func (s *StaffingSuite) TestPossibleJobs() {
	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade, regmodels.Console)
	late := s.job("Arcade late", regmodels.Arcade, 18, 2, 1)
	early := s.job("Consoles early", regmodels.Console, 9, 2, 2)
	s.job("LAN", regmodels.LAN, 9, 1, 5)
	restricted := s.job("Arcade restricted", regmodels.Arcade, 12, 1, 1)
	restricted.Restricted = true
	s.Require().NoError(s.svc.SaveJob(s.ctx, restricted))

	jobs, err := s.svc.PossibleJobs(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal([]id.JobID{early.ID, late.ID}, jobIDs(jobs))

	s.Run("a signup removes the job and anything overlapping it", func() {
		clash := s.job("Consoles clash", regmodels.Console, 10, 1, 3)
		jobs, err := s.svc.PossibleJobs(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal([]id.JobID{early.ID, clash.ID, late.ID}, jobIDs(jobs))

		_, err = s.svc.AssignShift(s.ctx, early.ID, a.ID)
		s.Require().NoError(err)
		jobs, err = s.svc.PossibleJobs(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Equal([]id.JobID{late.ID}, jobIDs(jobs))
	})

	s.Run("a full job disappears for everyone", func() {
		other := s.staffer("Grace", "Hopper", false, regmodels.Arcade)
		_, err := s.svc.AssignShift(s.ctx, late.ID, other.ID)
		s.Require().NoError(err)
		jobs, err := s.svc.PossibleJobs(s.ctx, a.ID)
		s.Require().NoError(err)
		s.Empty(jobs)
	})

	s.Run("no assigned departments", func() {
		none := s.staffer("Alan", "Turing", true)
		jobs, err := s.svc.PossibleJobs(s.ctx, none.ID)
		s.Require().NoError(err)
		s.Empty(jobs)
	})

	s.Run("unknown attendee", func() {
		_, err := s.svc.PossibleJobs(s.ctx, 999)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *StaffingSuite) TestPossibleJobsCache() {
	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade)
	first := s.job("Arcade", regmodels.Arcade, 10, 1, 2)
	hits := func() float64 { return promtest.ToFloat64(s.metrics.CacheLookups.WithLabelValues("hit")) }
	misses := func() float64 { return promtest.ToFloat64(s.metrics.CacheLookups.WithLabelValues("miss")) }

	_, err := s.svc.PossibleJobs(s.ctx, a.ID)
	s.Require().NoError(err)
	_, err = s.svc.PossibleJobs(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(1.0, misses())
	s.Equal(1.0, hits())

	second := s.job("Arcade again", regmodels.Arcade, 12, 1, 2)
	jobs, err := s.svc.PossibleJobs(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal([]id.JobID{first.ID, second.ID}, jobIDs(jobs), "saving a job invalidates the cache")
	s.Equal(2.0, misses())

	restricted := s.job("Arcade restricted", regmodels.Arcade, 14, 1, 2)
	restricted.Restricted = true
	s.Require().NoError(s.svc.SaveJob(s.ctx, restricted))
	jobs, err = s.svc.PossibleJobs(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(jobs, 2)

	a.Trusted = true
	s.Require().NoError(s.attendees.Update(s.ctx, a))
	jobs, err = s.svc.PossibleJobs(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(jobs, 3, "an attendee edit made outside this service still invalidates their entry")
}

func (s *StaffingSuite) TestPossibleJobsCollapsesConcurrentMisses() {
	ctrl := gomock.NewController(s.T())
	reader := mocks.NewMockAttendeeReader(ctrl)
	a := &regmodels.Attendee{ID: 7, Staffing: true, AssignedDepts: enumset.Of(regmodels.Arcade)}
	reader.EXPECT().FindByID(gomock.Any(), id.AttendeeID(7)).Return(a, nil).Times(8)
	svc := s.newService(reader)
	j := s.job("Arcade", regmodels.Arcade, 10, 1, 2)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			jobs, err := svc.PossibleJobs(s.ctx, a.ID)
			s.NoError(err)
			s.Equal([]id.JobID{j.ID}, jobIDs(jobs))
		}()
	}
	wg.Wait()
}

func (s *StaffingSuite) TestPossibleJobsReaderFailure() {
	ctrl := gomock.NewController(s.T())
	reader := mocks.NewMockAttendeeReader(ctrl)
	reader.EXPECT().FindByID(gomock.Any(), id.AttendeeID(3)).Return(nil, errors.New("connection reset"))
	svc := s.newService(reader)

	_, err := svc.PossibleJobs(s.ctx, 3)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *StaffingSuite) TestNoOverlap() {
	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade, regmodels.Console)
	held := s.job("Arcade", regmodels.Arcade, 10, 2, 2)
	held.Extra15 = true
	s.Require().NoError(s.svc.SaveJob(s.ctx, held))
	_, err := s.svc.AssignShift(s.ctx, held.ID, a.ID)
	s.Require().NoError(err)

	after := s.job("Consoles after", regmodels.Console, 12, 1, 2)
	sameLoc := s.job("Arcade after", regmodels.Arcade, 12, 1, 2)
	later := s.job("Consoles later", regmodels.Console, 13, 1, 2)

	for _, tc := range []struct {
		job  *models.Job
		want bool
	}{
		{after, false},
		{sameLoc, true},
		{later, true},
		{held, false},
	} {
		ok, err := s.svc.NoOverlap(s.ctx, tc.job.ID, a.ID)
		s.Require().NoError(err)
		s.Equal(tc.want, ok, tc.job.Name)
	}

	_, err = s.svc.NoOverlap(s.ctx, 999, a.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StaffingSuite) TestAssignShiftRechecksEligibility() {
	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade)
	b := s.staffer("Grace", "Hopper", false, regmodels.Arcade)
	j := s.job("Arcade", regmodels.Arcade, 10, 1, 1)

	sh, err := s.svc.AssignShift(s.ctx, j.ID, a.ID)
	s.Require().NoError(err)
	s.False(sh.ID.IsNil())

	_, err = s.svc.AssignShift(s.ctx, j.ID, a.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.ErrorIs(err, models.AlreadyTaken)

	_, err = s.svc.AssignShift(s.ctx, j.ID, b.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.ErrorIs(err, models.JobFull)

	lan := s.job("LAN", regmodels.LAN, 14, 1, 3)
	_, err = s.svc.AssignShift(s.ctx, lan.ID, b.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	restricted := s.job("Arcade restricted", regmodels.Arcade, 16, 1, 3)
	restricted.Restricted = true
	s.Require().NoError(s.svc.SaveJob(s.ctx, restricted))
	_, err = s.svc.AssignShift(s.ctx, restricted.ID, b.ID)
	s.ErrorIs(err, models.NotTrusted)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.ShiftsAssigned))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.ShiftsRejected.WithLabelValues("full")))

	counts, err := s.shifts.CountByJob(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[id.JobID]int{j.ID: 1}, counts)
}

func (s *StaffingSuite) TestConcurrentSignupsForTheLastSlot() {
	j := s.job("Arcade", regmodels.Arcade, 10, 1, 1)
	var people []*regmodels.Attendee
	for _, name := range []string{"Ada", "Grace", "Alan", "Edsger"} {
		people = append(people, s.staffer(name, "Staffer", false, regmodels.Arcade))
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losses int
	)
	for _, p := range people {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.AssignShift(s.ctx, j.ID, p.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if dErrors.HasCode(err, dErrors.CodeConflict) {
				losses++
			}
		}()
	}
	wg.Wait()
	s.Equal(1, wins)
	s.Equal(3, losses)
}

func (s *StaffingSuite) TestCacheFollowsTheEnclosingUnitOfWork() {
	holder := s.staffer("Ada", "Lovelace", false, regmodels.Arcade)
	waiting := s.staffer("Grace", "Hopper", false, regmodels.Arcade)
	j := s.job("Arcade", regmodels.Arcade, 10, 1, 1)
	_, err := s.svc.AssignShift(s.ctx, j.ID, holder.ID)
	s.Require().NoError(err)

	s.Run("rollback", func() {
		boom := errors.New("attendee delete failed")
		err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
			s.Require().NoError(s.svc.DeleteShiftsForAttendee(ctx, holder.ID))
			jobs, err := s.svc.PossibleJobs(ctx, waiting.ID)
			s.Require().NoError(err)
			s.Equal([]id.JobID{j.ID}, jobIDs(jobs), "the unit sees its own delete")
			return boom
		})
		s.Require().ErrorIs(err, boom)

		counts, err := s.shifts.CountByJob(s.ctx)
		s.Require().NoError(err)
		s.Equal(1, counts[j.ID])
		jobs, err := s.svc.PossibleJobs(s.ctx, waiting.ID)
		s.Require().NoError(err)
		s.Empty(jobs, "the rolled back delete must not stay cached")
	})

	s.Run("commit", func() {
		err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
			return s.svc.DeleteShiftsForAttendee(ctx, holder.ID)
		})
		s.Require().NoError(err)
		jobs, err := s.svc.PossibleJobs(s.ctx, waiting.ID)
		s.Require().NoError(err)
		s.Equal([]id.JobID{j.ID}, jobIDs(jobs))
	})
}

func (s *StaffingSuite) TestMarkWorkedAndHours() {
	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade)
	a.NonshiftHours = 3
	s.Require().NoError(s.attendees.Update(s.ctx, a))

	morning := s.job("Arcade morning", regmodels.Arcade, 9, 2, 2)
	evening := s.job("Arcade evening", regmodels.Arcade, 18, 2, 2)
	evening.Weight = 1.5
	evening.Extra15 = true
	s.Require().NoError(s.svc.SaveJob(s.ctx, evening))

	first, err := s.svc.AssignShift(s.ctx, morning.ID, a.ID)
	s.Require().NoError(err)
	_, err = s.svc.AssignShift(s.ctx, evening.ID, a.ID)
	s.Require().NoError(err)

	hours, err := s.svc.Hours(s.ctx, a.ID)
	s.Require().NoError(err)
	s.InDelta(2+2.25*1.5+3, hours.Weighted, 1e-9)
	s.InDelta(3.0, hours.Worked, 1e-9)

	s.Require().NoError(s.svc.MarkWorked(s.ctx, first.ID, models.ShiftWorked))
	hours, err = s.svc.Hours(s.ctx, a.ID)
	s.Require().NoError(err)
	s.InDelta(5.0, hours.Worked, 1e-9)

	rows := s.history(models.ShiftModel, int64(first.ID))
	s.Require().Len(rows, 2)
	s.Equal(trackingmodels.ActionUpdated, rows[0].Action)
	s.Contains(rows[0].Data, "worked: ")

	err = s.svc.MarkWorked(s.ctx, 999, models.ShiftWorked)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StaffingSuite) TestUnassign() {
	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade)
	j := s.job("Arcade", regmodels.Arcade, 10, 1, 1)
	sh, err := s.svc.AssignShift(s.ctx, j.ID, a.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Unassign(s.ctx, sh.ID))
	jobs, err := s.svc.PossibleJobs(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal([]id.JobID{j.ID}, jobIDs(jobs))

	rows := s.history(models.ShiftModel, int64(sh.ID))
	s.Require().Len(rows, 2)
	s.Equal(trackingmodels.ActionDeleted, rows[0].Action)

	s.True(dErrors.HasCode(s.svc.Unassign(s.ctx, sh.ID), dErrors.CodeNotFound))
}

func (s *StaffingSuite) TestSaveJob() {
	s.Run("validation", func() {
		err := s.svc.SaveJob(s.ctx, &models.Job{Location: regmodels.Arcade, StartTime: s.day, Duration: 1, Weight: 1, Slots: 1})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "name is required")
	})

	s.Run("create and update are tracked", func() {
		j := s.job("Arcade", regmodels.Arcade, 10, 1, 2)
		j.Slots = 4
		s.Require().NoError(s.svc.SaveJob(s.ctx, j))

		rows := s.history(models.JobModel, int64(j.ID))
		s.Require().Len(rows, 2)
		s.Equal("slots: 2 -> 4", rows[0].Data)
		s.Equal(trackingmodels.ActionCreated, rows[1].Action)
	})

	s.Run("slots cannot drop below signups", func() {
		j := s.job("Consoles", regmodels.Console, 10, 1, 2)
		for _, name := range []string{"Ada", "Grace"} {
			p := s.staffer(name, "Console", false, regmodels.Console)
			_, err := s.svc.AssignShift(s.ctx, j.ID, p.ID)
			s.Require().NoError(err)
		}
		j.Slots = 1
		err := s.svc.SaveJob(s.ctx, j)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		stored, err := s.svc.GetJob(s.ctx, j.ID)
		s.Require().NoError(err)
		s.Equal(2, stored.Slots)
	})

	s.Run("missing job", func() {
		err := s.svc.SaveJob(s.ctx, &models.Job{ID: 999, Name: "x", Location: regmodels.Arcade,
			StartTime: s.day, Duration: 1, Weight: 1, Slots: 1})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *StaffingSuite) TestDeleteJob() {
	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade)
	j := s.job("Arcade", regmodels.Arcade, 10, 1, 2)
	sh, err := s.svc.AssignShift(s.ctx, j.ID, a.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteJob(s.ctx, j.ID))
	_, err = s.svc.GetJob(s.ctx, j.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	rows := s.history(models.ShiftModel, int64(sh.ID))
	s.Equal(trackingmodels.ActionDeleted, rows[0].Action)
	rows = s.history(models.JobModel, int64(j.ID))
	s.Equal(trackingmodels.ActionDeleted, rows[0].Action)

	hours, err := s.svc.Hours(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Zero(hours.Weighted)
}

func (s *StaffingSuite) TestAvailableStaffers() {
	j := s.job("Arcade", regmodels.Arcade, 10, 2, 5)
	zed := s.staffer("Zed", "Adams", false, regmodels.Arcade)
	amy := s.staffer("Amy", "Adams", false, regmodels.Arcade)
	s.staffer("Lan", "Only", false, regmodels.LAN)
	busy := s.staffer("Busy", "Bee", false, regmodels.Arcade, regmodels.Console)
	signed := s.staffer("Already", "On", false, regmodels.Arcade)
	notStaffing := &regmodels.Attendee{FirstName: "Not", LastName: "Staff", AgeGroup: regmodels.Over21,
		AssignedDepts: enumset.Of(regmodels.Arcade)}
	s.Require().NoError(s.attendees.Insert(s.ctx, notStaffing))

	clash := s.job("Consoles", regmodels.Console, 11, 1, 5)
	_, err := s.svc.AssignShift(s.ctx, clash.ID, busy.ID)
	s.Require().NoError(err)
	_, err = s.svc.AssignShift(s.ctx, j.ID, signed.ID)
	s.Require().NoError(err)

	got, err := s.svc.AvailableStaffers(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(amy.ID, got[0].ID)
	s.Equal(zed.ID, got[1].ID)

	j.Restricted = true
	s.Require().NoError(s.svc.SaveJob(s.ctx, j))
	amy.Trusted = true
	s.Require().NoError(s.attendees.Update(s.ctx, amy))
	got, err = s.svc.AvailableStaffers(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(amy.ID, got[0].ID)
}

func (s *StaffingSuite) TestDeletingAnAttendeeDropsTheirShifts() {
	reg, err := regservice.New(s.tx, s.attendees, s.groups, s.tracker,
		config.NewEventStateHolder(config.DefaultEventState()),
		regservice.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		regservice.WithShiftCleaner(s.svc),
	)
	s.Require().NoError(err)

	a := s.staffer("Ada", "Lovelace", false, regmodels.Arcade)
	b := s.staffer("Grace", "Hopper", false, regmodels.Arcade)
	j := s.job("Arcade", regmodels.Arcade, 10, 1, 1)
	sh, err := s.svc.AssignShift(s.ctx, j.ID, a.ID)
	s.Require().NoError(err)

	jobs, err := s.svc.PossibleJobs(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Empty(jobs)

	s.Require().NoError(reg.DeleteAttendee(s.ctx, a.ID))
	_, err = s.shifts.FindByID(s.ctx, sh.ID)
	s.Error(err)
	rows := s.history(models.ShiftModel, int64(sh.ID))
	s.Equal(trackingmodels.ActionDeleted, rows[0].Action)

	jobs, err = s.svc.PossibleJobs(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal([]id.JobID{j.ID}, jobIDs(jobs), "the freed slot is visible again")
}
