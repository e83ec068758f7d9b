package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ubersystem/internal/staffing/models"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
)

func (s *Service) GetJob(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	j, err := s.jobStore.FindByID(ctx, jobID)
	if err != nil {
		return nil, loadError(err, "job")
	}
	return j, nil
}

func (s *Service) ListJobs(ctx context.Context) ([]*models.Job, error) {
	jobs, err := s.jobStore.List(ctx)
	if err != nil {
		return nil, loadError(err, "jobs")
	}
	return jobs, nil
}

// SaveJob validates and writes j; a zero ID inserts. Lowering Slots below
// the number of people already signed up is refused.
func (s *Service) SaveJob(ctx context.Context, j *models.Job) error {
	ctx, span := tracer.Start(ctx, "staffing.SaveJob", trace.WithAttributes(
		attribute.Int64("job.id", int64(j.ID)),
	))
	defer span.End()

	if err := j.Validate(); err != nil {
		return err
	}

	work := j.Clone()
	isNew := work.ID.IsNil()
	err := s.mutate(ctx, func(ctx context.Context) error {
		if isNew {
			if err := s.jobs.Create(ctx, work); err != nil {
				return writeError(err, "job")
			}
			return nil
		}

		if _, err := s.jobStore.LockByID(ctx, work.ID); err != nil {
			return loadError(err, "job")
		}
		taken, err := s.shiftStore.ListByJob(ctx, work.ID)
		if err != nil {
			return loadError(err, "shifts")
		}
		if len(taken) > work.Slots {
			return dErrors.Newf(dErrors.CodeConflict,
				"cannot reduce slots to %d: %d staffers are already signed up", work.Slots, len(taken))
		}
		if err := s.jobs.Update(ctx, work); err != nil {
			return writeError(err, "job")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	*j = *work
	s.logger.InfoContext(ctx, "job saved", "job_id", j.ID.String(), "created", isNew)
	return nil
}

// DeleteJob removes the job along with every shift on it.
func (s *Service) DeleteJob(ctx context.Context, jobID id.JobID) error {
	ctx, span := tracer.Start(ctx, "staffing.DeleteJob", trace.WithAttributes(
		attribute.Int64("job.id", int64(jobID)),
	))
	defer span.End()

	var dropped int
	err := s.mutate(ctx, func(ctx context.Context) error {
		job, err := s.jobStore.LockByID(ctx, jobID)
		if err != nil {
			return loadError(err, "job")
		}
		shifts, err := s.shiftStore.ListByJob(ctx, jobID)
		if err != nil {
			return loadError(err, "shifts")
		}
		for _, sh := range shifts {
			if err := s.shifts.Delete(ctx, sh); err != nil {
				return writeError(err, "shift")
			}
		}
		dropped = len(shifts)
		if err := s.jobs.Delete(ctx, job); err != nil {
			return writeError(err, "job")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.InfoContext(ctx, "job deleted", "job_id", jobID.String(), "shifts_dropped", dropped)
	return nil
}
