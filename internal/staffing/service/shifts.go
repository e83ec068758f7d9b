package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	regmodels "ubersystem/internal/registration/models"
	"ubersystem/internal/staffing/models"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
)

// AssignShift signs the attendee up for the job. Eligibility is checked
// again against the locked job row, so two signups racing for the last slot
// cannot both succeed.
func (s *Service) AssignShift(ctx context.Context, jobID id.JobID, attendeeID id.AttendeeID) (*models.Shift, error) {
	ctx, span := tracer.Start(ctx, "staffing.AssignShift", trace.WithAttributes(
		attribute.Int64("job.id", int64(jobID)),
		attribute.Int64("attendee.id", int64(attendeeID)),
	))
	defer span.End()

	var shift *models.Shift
	err := s.mutate(ctx, func(ctx context.Context) error {
		job, err := s.jobStore.LockByID(ctx, jobID)
		if err != nil {
			return loadError(err, "job")
		}
		a, err := s.loadAttendee(ctx, attendeeID)
		if err != nil {
			return err
		}
		taken, err := s.shiftStore.ListByJob(ctx, jobID)
		if err != nil {
			return loadError(err, "shifts")
		}
		schedule, _, err := s.schedule(ctx, attendeeID)
		if err != nil {
			return err
		}
		if err := models.CanTake(a, job, len(taken), schedule); err != nil {
			return s.rejected(ctx, err, job, a)
		}

		shift = &models.Shift{JobID: jobID, AttendeeID: attendeeID}
		if err := s.shifts.Create(ctx, shift); err != nil {
			return writeError(err, "shift")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncShiftsAssigned()
	}
	s.logger.InfoContext(ctx, "shift assigned",
		"shift_id", shift.ID.String(),
		"job_id", jobID.String(),
		"attendee_id", attendeeID.String(),
	)
	return shift, nil
}

func (s *Service) rejected(ctx context.Context, err error, job *models.Job, a *regmodels.Attendee) error {
	var reason models.Ineligible
	if !errors.As(err, &reason) {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncShiftsRejected(reasonKey(reason))
	}
	s.logger.InfoContext(ctx, "shift signup refused",
		"job_id", job.ID.String(),
		"attendee_id", a.ID.String(),
		"reason", string(reason),
	)
	switch reason {
	case models.NotAssigned, models.NotTrusted:
		return dErrors.Wrap(reason, dErrors.CodeForbidden, string(reason))
	default:
		return dErrors.Wrap(reason, dErrors.CodeConflict, string(reason))
	}
}

func reasonKey(r models.Ineligible) string {
	switch r {
	case models.NotAssigned:
		return "not_assigned"
	case models.JobFull:
		return "full"
	case models.Overlapping:
		return "overlap"
	case models.NotTrusted:
		return "not_trusted"
	case models.AlreadyTaken:
		return "already_taken"
	}
	return "other"
}

// MarkWorked records whether the staffer showed up.
func (s *Service) MarkWorked(ctx context.Context, shiftID id.ShiftID, status models.WorkedStatus) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		sh, err := s.shiftStore.FindByID(ctx, shiftID)
		if err != nil {
			return loadError(err, "shift")
		}
		sh.Worked = status
		if err := s.shifts.Update(ctx, sh); err != nil {
			return writeError(err, "shift")
		}
		return nil
	})
}

// Unassign drops one shift.
func (s *Service) Unassign(ctx context.Context, shiftID id.ShiftID) error {
	err := s.mutate(ctx, func(ctx context.Context) error {
		sh, err := s.shiftStore.FindByID(ctx, shiftID)
		if err != nil {
			return loadError(err, "shift")
		}
		if err := s.shifts.Delete(ctx, sh); err != nil {
			return writeError(err, "shift")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "shift unassigned", "shift_id", shiftID.String())
	return nil
}

// DeleteShiftsForAttendee removes every shift the attendee holds. It runs in
// the caller's unit of work, which is how attendee deletion uses it.
func (s *Service) DeleteShiftsForAttendee(ctx context.Context, attendeeID id.AttendeeID) error {
	return s.mutate(ctx, func(ctx context.Context) error {
		shifts, err := s.shiftStore.ListByAttendee(ctx, attendeeID)
		if err != nil {
			return loadError(err, "shifts")
		}
		for _, sh := range shifts {
			if err := s.shifts.Delete(ctx, sh); err != nil {
				return writeError(err, "shift")
			}
		}
		return nil
	})
}

// AttendeeHours totals an attendee's shifts. Both totals include the
// attendee's non-shift hours.
type AttendeeHours struct {
	Weighted float64 `json:"weighted_hours"`
	Worked   float64 `json:"worked_hours"`
}

func (s *Service) Hours(ctx context.Context, attendeeID id.AttendeeID) (AttendeeHours, error) {
	a, err := s.loadAttendee(ctx, attendeeID)
	if err != nil {
		return AttendeeHours{}, err
	}
	schedule, shifts, err := s.schedule(ctx, attendeeID)
	if err != nil {
		return AttendeeHours{}, err
	}

	jobs := make(map[id.JobID]*models.Job, len(schedule))
	for _, j := range schedule {
		jobs[j.ID] = j
	}
	hours := AttendeeHours{
		Weighted: schedule.WeightedHours() + float64(a.NonshiftHours),
		Worked:   float64(a.NonshiftHours),
	}
	for _, sh := range shifts {
		if j, ok := jobs[sh.JobID]; ok && sh.Worked == models.ShiftWorked {
			hours.Worked += j.WeightedHours()
		}
	}
	return hours, nil
}

// AvailableStaffers lists the staffers who could be put on the job right
// now, ordered by last then first name. Slot availability is not checked.
func (s *Service) AvailableStaffers(ctx context.Context, jobID id.JobID) ([]*regmodels.Attendee, error) {
	job, err := s.jobStore.FindByID(ctx, jobID)
	if err != nil {
		return nil, loadError(err, "job")
	}

	var (
		staffers []*regmodels.Attendee
		shifts   []*models.Shift
		jobs     []*models.Job
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		staffers, err = s.attendees.ListStaffers(gctx)
		if err != nil {
			return loadError(err, "staffers")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		shifts, err = s.shiftStore.List(gctx)
		if err != nil {
			return loadError(err, "shifts")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		jobs, err = s.jobStore.List(gctx)
		if err != nil {
			return loadError(err, "jobs")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[id.JobID]*models.Job, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
	}
	schedules := make(map[id.AttendeeID]models.Schedule)
	for _, sh := range shifts {
		if j, ok := byID[sh.JobID]; ok {
			schedules[sh.AttendeeID] = append(schedules[sh.AttendeeID], j)
		}
	}

	var out []*regmodels.Attendee
	for _, a := range staffers {
		schedule := schedules[a.ID]
		if !a.AssignedDepts.Has(job.Location) || (job.Restricted && !a.Trusted) {
			continue
		}
		if schedule.Contains(job.ID) || !models.NoOverlap(job, schedule) {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(x, y *regmodels.Attendee) int {
		return strings.Compare(x.LastFirst(), y.LastFirst())
	})
	return out, nil
}
