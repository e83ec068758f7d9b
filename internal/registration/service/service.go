// Package service applies the registration rules: attendee save hooks, badge
// numbering under the badge lock, group cost recalculation and payments.
// Every mutation runs in one unit of work together with its tracking rows.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"ubersystem/internal/platform/config"
	"ubersystem/internal/registration/badges"
	"ubersystem/internal/registration/metrics"
	"ubersystem/internal/registration/models"
	trackingservice "ubersystem/internal/tracking/service"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/sentinel"
)

var tracer = otel.Tracer("ubersystem/registration")

const defaultLockTimeout = 10 * time.Second

// TxRunner opens a unit of work; nested calls join the outer one.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type AttendeeStore interface {
	Insert(ctx context.Context, a *models.Attendee) error
	Update(ctx context.Context, a *models.Attendee) error
	Delete(ctx context.Context, a *models.Attendee) error
	FindByID(ctx context.Context, attendeeID id.AttendeeID) (*models.Attendee, error)
	ListByGroup(ctx context.Context, groupID id.GroupID) ([]*models.Attendee, error)
}

type GroupStore interface {
	Insert(ctx context.Context, g *models.Group) error
	Update(ctx context.Context, g *models.Group) error
	Delete(ctx context.Context, g *models.Group) error
	FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error)
}

type BadgeNumberer interface {
	NextBadgeNum(ctx context.Context, badgeType models.BadgeType) (int, error)
	ShiftBadges(ctx context.Context, badgeType models.BadgeType, from int, down bool) error
}

// ShiftCleaner removes the shifts of an attendee about to be deleted.
type ShiftCleaner interface {
	DeleteShiftsForAttendee(ctx context.Context, attendeeID id.AttendeeID) error
}

type Service struct {
	tx            TxRunner
	attendeeStore AttendeeStore
	groupStore    GroupStore
	attendees     *trackingservice.Repository[*models.Attendee]
	groups        *trackingservice.Repository[*models.Group]
	events        config.EventStateSource
	numberer      BadgeNumberer
	locker        badges.Locker
	lockTimeout   time.Duration
	shifts        ShiftCleaner
	hooks         []Hook
	logger        *slog.Logger
	metrics       *metrics.Metrics
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

// WithNumberer replaces the default numberer built over the attendee store.
func WithNumberer(n BadgeNumberer) Option {
	return func(s *Service) {
		s.numberer = n
	}
}

// WithLocker sets the badge lock. The default only serializes this process.
func WithLocker(l badges.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

func WithLockTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.lockTimeout = d
	}
}

// WithShiftCleaner makes attendee deletion remove the attendee's shifts.
func WithShiftCleaner(c ShiftCleaner) Option {
	return func(s *Service) {
		s.shifts = c
	}
}

// WithHooks replaces the attendee save pipeline.
func WithHooks(hooks ...Hook) Option {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// AttendeeNumberingStore is an AttendeeStore that can also renumber badges.
type AttendeeNumberingStore interface {
	AttendeeStore
	badges.Store
}

func New(
	tx TxRunner,
	attendees AttendeeNumberingStore,
	groups GroupStore,
	tracker trackingservice.Tracker,
	events config.EventStateSource,
	opts ...Option,
) (*Service, error) {
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if attendees == nil {
		return nil, errors.New("attendee store is required")
	}
	if groups == nil {
		return nil, errors.New("group store is required")
	}
	if tracker == nil {
		return nil, errors.New("tracker is required")
	}
	if events == nil {
		return nil, errors.New("event state source is required")
	}

	s := &Service{
		tx:            tx,
		attendeeStore: attendees,
		groupStore:    groups,
		events:        events,
		locker:        badges.NewMutexLocker(),
		lockTimeout:   defaultLockTimeout,
		hooks:         AttendeeHooks(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.numberer == nil {
		s.numberer = badges.NewNumberer(attendees, badges.WithMetrics(s.metrics))
	}

	s.attendees = trackingservice.NewRepository[*models.Attendee](tracker, models.AttendeeModel, attendees,
		func(ctx context.Context, rawID int64) (*models.Attendee, error) {
			return attendees.FindByID(ctx, id.AttendeeID(rawID))
		})
	s.groups = trackingservice.NewRepository[*models.Group](tracker, models.GroupModel, groups,
		func(ctx context.Context, rawID int64) (*models.Group, error) {
			return groups.FindByID(ctx, id.GroupID(rawID))
		})
	return s, nil
}

// withBadgeLock holds the badge lock around a whole unit of work so a
// number is never visible to another allocator before it commits.
func (s *Service) withBadgeLock(ctx context.Context, fn func(ctx context.Context) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	start := time.Now()
	unlock, err := s.locker.Lock(lockCtx)
	if s.metrics != nil {
		s.metrics.ObserveBadgeLockWait(time.Since(start).Seconds())
	}
	if err != nil {
		s.logger.WarnContext(ctx, "badge lock not acquired", "error", err)
		if _, ok := dErrors.As(err); ok {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "badge lock unavailable")
	}
	defer unlock()

	return s.tx.RunInTx(ctx, fn)
}

func (s *Service) recordSave(model string, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncSaves(model, outcome)
}

// loadError translates a store read failure.
func loadError(err error, what string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, what+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what)
}

// writeError translates a store or tracking write failure. Domain errors
// pass through untouched.
func writeError(err error, what string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, fmt.Sprintf("%s conflicts with an existing record", what))
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save "+what)
}
