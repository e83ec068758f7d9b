// Package service runs shift signups: which jobs a staffer may take, the
// signup itself with its slot and overlap re-check, job maintenance and
// hour totals. Every mutation is tracked and invalidates the possible-jobs
// cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"

	regmodels "ubersystem/internal/registration/models"
	"ubersystem/internal/staffing/metrics"
	"ubersystem/internal/staffing/models"
	trackingservice "ubersystem/internal/tracking/service"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/sentinel"
	txcontext "ubersystem/pkg/platform/tx"
)

var tracer = otel.Tracer("ubersystem/staffing")

// TxRunner opens a unit of work; nested calls join the outer one.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type JobStore interface {
	Insert(ctx context.Context, j *models.Job) error
	Update(ctx context.Context, j *models.Job) error
	Delete(ctx context.Context, j *models.Job) error
	FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error)
	LockByID(ctx context.Context, jobID id.JobID) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	ListByLocations(ctx context.Context, locs []regmodels.Dept) ([]*models.Job, error)
	ListByIDs(ctx context.Context, ids []id.JobID) ([]*models.Job, error)
}

type ShiftStore interface {
	Insert(ctx context.Context, sh *models.Shift) error
	Update(ctx context.Context, sh *models.Shift) error
	Delete(ctx context.Context, sh *models.Shift) error
	FindByID(ctx context.Context, shiftID id.ShiftID) (*models.Shift, error)
	ListByAttendee(ctx context.Context, attendeeID id.AttendeeID) ([]*models.Shift, error)
	ListByJob(ctx context.Context, jobID id.JobID) ([]*models.Shift, error)
	List(ctx context.Context) ([]*models.Shift, error)
	CountByJob(ctx context.Context) (map[id.JobID]int, error)
}

// AttendeeReader is the read side of the registration attendee store.
type AttendeeReader interface {
	FindByID(ctx context.Context, attendeeID id.AttendeeID) (*regmodels.Attendee, error)
	ListStaffers(ctx context.Context) ([]*regmodels.Attendee, error)
}

type Service struct {
	tx         TxRunner
	jobStore   JobStore
	shiftStore ShiftStore
	attendees  AttendeeReader
	jobs       *trackingservice.Repository[*models.Job]
	shifts     *trackingservice.Repository[*models.Shift]
	cache      *possibleJobsCache
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(
	tx TxRunner,
	jobs JobStore,
	shifts ShiftStore,
	attendees AttendeeReader,
	tracker trackingservice.Tracker,
	opts ...Option,
) (*Service, error) {
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if jobs == nil {
		return nil, errors.New("job store is required")
	}
	if shifts == nil {
		return nil, errors.New("shift store is required")
	}
	if attendees == nil {
		return nil, errors.New("attendee reader is required")
	}
	if tracker == nil {
		return nil, errors.New("tracker is required")
	}

	s := &Service{
		tx:         tx,
		jobStore:   jobs,
		shiftStore: shifts,
		attendees:  attendees,
		cache:      newPossibleJobsCache(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.jobs = trackingservice.NewRepository[*models.Job](tracker, models.JobModel, jobs,
		func(ctx context.Context, rawID int64) (*models.Job, error) {
			return jobs.FindByID(ctx, id.JobID(rawID))
		})
	s.shifts = trackingservice.NewRepository[*models.Shift](tracker, models.ShiftModel, shifts,
		func(ctx context.Context, rawID int64) (*models.Shift, error) {
			return shifts.FindByID(ctx, id.ShiftID(rawID))
		})
	return s, nil
}

// mutate runs fn in a unit of work. The possible-jobs cache is invalidated
// when the outermost unit ends, committed or not: a reader may have cached
// rows the unit wrote before it finished.
func (s *Service) mutate(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		txcontext.OnDone(ctx, s.cache.invalidate)
		return fn(ctx)
	})
}

// schedule loads the jobs attendeeID is signed up for.
func (s *Service) schedule(ctx context.Context, attendeeID id.AttendeeID) (models.Schedule, []*models.Shift, error) {
	shifts, err := s.shiftStore.ListByAttendee(ctx, attendeeID)
	if err != nil {
		return nil, nil, loadError(err, "shifts")
	}
	if len(shifts) == 0 {
		return nil, nil, nil
	}
	ids := make([]id.JobID, len(shifts))
	for i, sh := range shifts {
		ids[i] = sh.JobID
	}
	jobs, err := s.jobStore.ListByIDs(ctx, ids)
	if err != nil {
		return nil, nil, loadError(err, "jobs")
	}
	return models.Schedule(jobs), shifts, nil
}

func (s *Service) loadAttendee(ctx context.Context, attendeeID id.AttendeeID) (*regmodels.Attendee, error) {
	a, err := s.attendees.FindByID(ctx, attendeeID)
	if err != nil {
		return nil, loadError(err, "attendee")
	}
	return a, nil
}

func loadError(err error, what string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, what+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what)
}

func writeError(err error, what string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, fmt.Sprintf("%s conflicts with an existing record", what))
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save "+what)
}
