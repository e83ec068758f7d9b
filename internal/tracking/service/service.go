// Package service writes and queries the change-tracking trail. Track is
// fail-closed: when the row cannot be persisted the error is returned and the
// caller's unit of work must roll back.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ubersystem/internal/tracking/metrics"
	"ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/sentinel"
	"ubersystem/pkg/requestcontext"
)

// NonAdmin is recorded as the actor when neither an administrator nor a named
// worker is on the context.
const NonAdmin = "non-admin"

const maxWhichLen = 255

var tracer = otel.Tracer("ubersystem/tracking")

// Store persists tracking rows. Append must join the transaction on ctx.
type Store interface {
	Append(ctx context.Context, row *models.Tracking) error
	List(ctx context.Context, filter models.Filter) ([]*models.Tracking, error)
}

// ActorResolver looks up the display name of an administrator account.
type ActorResolver interface {
	AccountName(ctx context.Context, accountID id.AccountID) (string, error)
}

// Loader reads the persisted state of one entity of a model.
type Loader func(ctx context.Context, id int64) (models.Trackable, error)

type Service struct {
	store   Store
	actors  ActorResolver
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.RWMutex
	loaders map[string]Loader
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

// WithActorResolver sets how administrator ids become names. Without one,
// every row is attributed to the worker name or NonAdmin.
func WithActorResolver(r ActorResolver) Option {
	return func(s *Service) {
		s.actors = r
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("tracking store is required")
	}
	s := &Service{
		store:   store,
		logger:  slog.Default(),
		loaders: make(map[string]Loader),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RegisterLoader installs the prior-state reader for a model. UPDATED rows
// for a model without a loader fail.
func (s *Service) RegisterLoader(model string, loader Loader) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaders[model] = loader
}

func (s *Service) loader(model string) (Loader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.loaders[model]
	return l, ok
}

// Track records one mutation of entity. It must run inside the unit of work
// performing the mutation: for ActionUpdated before the new state is written,
// for ActionCreated after the insert assigned an id.
func (s *Service) Track(ctx context.Context, action models.Action, entity models.Trackable) error {
	model := entity.TrackingModel()
	if model == models.ModelName {
		return nil
	}

	ctx, span := tracer.Start(ctx, "tracking.Track", trace.WithAttributes(
		attribute.String("tracking.model", model),
		attribute.String("tracking.action", action.String()),
	))
	defer span.End()

	var data string
	switch action {
	case models.ActionCreated:
		data = FormatCreated(entity.TrackedFields())
	case models.ActionUpdated:
		prior, err := s.prior(ctx, model, entity.TrackingID())
		if err != nil {
			return err
		}
		data = Diff(prior.TrackedFields(), entity.TrackedFields())
		if data == "" {
			return nil
		}
	case models.ActionDeleted:
	default:
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown tracking action %d", action)
	}

	who, err := s.who(ctx)
	if err != nil {
		return err
	}

	row := &models.Tracking{
		When:   requestcontext.Now(ctx),
		Who:    who,
		Which:  truncate(entity.String(), maxWhichLen),
		Model:  model,
		FKID:   entity.TrackingID(),
		Action: action,
		Data:   data,
	}
	if err := s.store.Append(ctx, row); err != nil {
		if s.metrics != nil {
			s.metrics.IncWriteFailures(model)
		}
		s.logger.ErrorContext(ctx, "CRITICAL: tracking write failed",
			"model", model,
			"fk_id", row.FKID,
			"action", action.String(),
			"error", err,
		)
		return fmt.Errorf("tracking write failed: %w", err)
	}
	if s.metrics != nil {
		s.metrics.IncWrites(model, action.String())
	}
	return nil
}

func (s *Service) prior(ctx context.Context, model string, fkID int64) (models.Trackable, error) {
	load, ok := s.loader(model)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "no prior-state loader registered for %s", model)
	}
	prior, err := load(ctx, fkID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation,
				fmt.Sprintf("prior state of %s #%d missing while tracking an update", model, fkID))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load prior state")
	}
	return prior, nil
}

// who resolves the acting identity: the administrator on the context, else the
// named worker, else NonAdmin. An administrator id that no longer resolves to
// an account falls through to the worker identities.
func (s *Service) who(ctx context.Context) (string, error) {
	if accountID := requestcontext.AccountID(ctx); !accountID.IsNil() && s.actors != nil {
		name, err := s.actors.AccountName(ctx, accountID)
		switch {
		case err == nil:
			return name, nil
		case errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound):
			s.logger.WarnContext(ctx, "acting account not found, attributing to worker",
				"account_id", accountID.String(),
			)
		default:
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve acting account")
		}
	}
	if worker := requestcontext.Worker(ctx); worker != "" {
		return worker, nil
	}
	return NonAdmin, nil
}

// List returns rows matching filter, newest first.
func (s *Service) List(ctx context.Context, filter models.Filter) ([]*models.Tracking, error) {
	rows, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tracking rows")
	}
	return rows, nil
}

// History returns the rows for one entity, newest first.
func (s *Service) History(ctx context.Context, model string, fkID int64) ([]*models.Tracking, error) {
	return s.List(ctx, models.Filter{Model: model, FKID: fkID})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
