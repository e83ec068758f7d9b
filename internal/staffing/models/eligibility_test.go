package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	regmodels "ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/enumset"
	"ubersystem/pkg/testutil"
)

type EligibilitySuite struct {
	suite.Suite
	day     time.Time
	nextID  id.JobID
	staffer *regmodels.Attendee
}

func TestEligibilitySuite(t *testing.T) {
	suite.Run(t, new(EligibilitySuite))
}

func (s *EligibilitySuite) SetupTest() {
	s.day = testutil.Date(2015, time.January, 3, 0)
	s.nextID = 0
	s.staffer = &regmodels.Attendee{
		ID:            1,
		Staffing:      true,
		AssignedDepts: enumset.Of(regmodels.Arcade, regmodels.Console),
	}
}

func (s *EligibilitySuite) job(loc regmodels.Dept, startHour, duration int, extra15 bool) *Job {
	s.nextID++
	return &Job{
		ID:        s.nextID,
		Name:      loc.String(),
		Location:  loc,
		StartTime: s.day.Add(time.Duration(startHour) * time.Hour),
		Duration:  duration,
		Weight:    1,
		Slots:     2,
		Extra15:   extra15,
	}
}

func (s *EligibilitySuite) TestHours() {
	j := s.job(regmodels.Arcade, 10, 3, false)
	s.Equal([]Hour{
		HourOf(s.day.Add(10 * time.Hour)),
		HourOf(s.day.Add(11 * time.Hour)),
		HourOf(s.day.Add(12 * time.Hour)),
	}, j.Hours())
	s.Equal(s.day.Add(13*time.Hour), j.End())

	local := j.StartTime.In(time.FixedZone("EST", -5*3600))
	s.Equal(HourOf(j.StartTime), HourOf(local), "hours compare by instant")

	other := s.job(regmodels.Console, 12, 2, false)
	sched := Schedule{j, other}
	s.Len(sched.Hours(), 4)
	s.Equal(other, sched.HourMap()[HourOf(s.day.Add(12*time.Hour))])
}

func (s *EligibilitySuite) TestDurations() {
	j := s.job(regmodels.Arcade, 10, 2, true)
	j.Weight = 1.5
	s.InDelta(2.25, j.RealDuration(), 1e-9)
	s.InDelta(3.375, j.WeightedHours(), 1e-9)

	j.Extra15 = false
	s.InDelta(2.0, j.RealDuration(), 1e-9)
}

func (s *EligibilitySuite) TestNoOverlap() {
	s.Run("intersecting jobs overlap in both orders", func() {
		a := s.job(regmodels.Arcade, 10, 3, false)
		b := s.job(regmodels.Arcade, 12, 2, false)
		s.False(NoOverlap(a, Schedule{b}))
		s.False(NoOverlap(b, Schedule{a}))
	})

	s.Run("adjacent jobs do not overlap", func() {
		a := s.job(regmodels.Arcade, 10, 2, false)
		b := s.job(regmodels.Console, 12, 2, false)
		s.True(NoOverlap(a, Schedule{b}))
		s.True(NoOverlap(b, Schedule{a}))
	})

	s.Run("extra15 before blocks a different location", func() {
		prev := s.job(regmodels.Arcade, 10, 2, true)
		next := s.job(regmodels.Console, 12, 2, false)
		s.False(NoOverlap(next, Schedule{prev}))

		sameLoc := s.job(regmodels.Arcade, 12, 2, false)
		s.True(NoOverlap(sameLoc, Schedule{prev}))
	})

	s.Run("extra15 job cannot be followed by another location", func() {
		target := s.job(regmodels.Arcade, 10, 2, true)
		next := s.job(regmodels.Console, 12, 2, false)
		s.False(NoOverlap(target, Schedule{next}))

		plain := s.job(regmodels.Arcade, 10, 2, false)
		s.True(NoOverlap(plain, Schedule{next}), "without extra15 the handoff is clean")
	})

	s.Run("empty schedule", func() {
		s.True(NoOverlap(s.job(regmodels.Arcade, 1, 1, true), nil))
	})
}

func (s *EligibilitySuite) TestPossibleJobs() {
	late := s.job(regmodels.Arcade, 15, 1, false)
	early := s.job(regmodels.Console, 9, 1, false)
	lan := s.job(regmodels.LAN, 9, 1, false)
	full := s.job(regmodels.Arcade, 20, 1, false)
	restricted := s.job(regmodels.Console, 21, 1, false)
	restricted.Restricted = true
	clash := s.job(regmodels.Arcade, 11, 2, false)
	mine := s.job(regmodels.Console, 12, 1, false)

	jobs := []*Job{late, early, lan, full, restricted, clash, mine}
	counts := map[id.JobID]int{full.ID: 2, mine.ID: 1}
	schedule := Schedule{mine}

	got := PossibleJobs(s.staffer, jobs, counts, schedule)
	s.Equal([]*Job{early, late}, got)

	s.staffer.Trusted = true
	got = PossibleJobs(s.staffer, jobs, counts, schedule)
	s.Equal([]*Job{early, late, restricted}, got)

	s.staffer.AssignedDepts = nil
	s.Empty(PossibleJobs(s.staffer, jobs, counts, schedule))
}

func (s *EligibilitySuite) TestCanTakeReasons() {
	j := s.job(regmodels.Arcade, 10, 1, false)
	s.NoError(CanTake(s.staffer, j, 0, nil))
	s.ErrorIs(CanTake(s.staffer, j, 2, nil), JobFull)
	s.ErrorIs(CanTake(s.staffer, j, 0, Schedule{j}), AlreadyTaken)

	j.Restricted = true
	s.ErrorIs(CanTake(s.staffer, j, 0, nil), NotTrusted)

	lan := s.job(regmodels.LAN, 10, 1, false)
	s.ErrorIs(CanTake(s.staffer, lan, 0, nil), NotAssigned)

	clash := s.job(regmodels.Console, 10, 1, false)
	s.ErrorIs(CanTake(s.staffer, clash, 0, Schedule{s.job(regmodels.Arcade, 10, 1, false)}), Overlapping)
}

func TestWorkedStatusText(t *testing.T) {
	var w WorkedStatus
	if err := w.UnmarshalText([]byte("worked")); err != nil || w != ShiftWorked {
		t.Fatalf("UnmarshalText(worked) = %v, %v", w, err)
	}
	if err := w.UnmarshalText([]byte("nope")); err == nil {
		t.Fatal("expected error for unknown status")
	}
	b, err := ShiftUnworked.MarshalText()
	if err != nil || string(b) != "unworked" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
}
