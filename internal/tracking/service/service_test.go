package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,ActorResolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"ubersystem/internal/storage"
	"ubersystem/internal/tracking/models"
	"ubersystem/internal/tracking/service/mocks"
	"ubersystem/internal/tracking/store"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/platform/sentinel"
	"ubersystem/pkg/requestcontext"
)

// widget is a minimal trackable entity.
type widget struct {
	ID    int64
	Name  string
	Count int
}

func (w *widget) TrackingModel() string { return "Widget" }
func (w *widget) TrackingID() int64     { return w.ID }
func (w *widget) String() string        { return "Widget " + w.Name }
func (w *widget) TrackedFields() []models.Field {
	return []models.Field{{Name: "name", Value: w.Name}, {Name: "count", Value: w.Count}}
}

// widgetStore is an in-memory EntityStore that keeps copies.
type widgetStore struct {
	mu     sync.Mutex
	rows   map[int64]widget
	nextID int64
}

func newWidgetStore() *widgetStore {
	return &widgetStore{rows: map[int64]widget{}, nextID: 1}
}

func (s *widgetStore) Insert(_ context.Context, w *widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = s.nextID
	s.nextID++
	s.rows[w.ID] = *w
	return nil
}

func (s *widgetStore) Update(_ context.Context, w *widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[w.ID] = *w
	return nil
}

func (s *widgetStore) Delete(_ context.Context, w *widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, w.ID)
	return nil
}

func (s *widgetStore) FindByID(_ context.Context, id int64) (*widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("widget %d: %w", id, sentinel.ErrNotFound)
	}
	return &w, nil
}

func (s *widgetStore) Snapshot() func() {
	s.mu.Lock()
	saved := maps.Clone(s.rows)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = saved
	}
}

type TrackingServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	actors  *mocks.MockActorResolver
	rows    *store.InMemory
	widgets *widgetStore
	tx      *storage.MemoryTx
	service *Service
	repo    *Repository[*widget]
	now     time.Time
}

func TestTrackingServiceSuite(t *testing.T) {
	suite.Run(t, new(TrackingServiceSuite))
}

func (s *TrackingServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.actors = mocks.NewMockActorResolver(s.ctrl)
	s.rows = store.NewInMemory()
	s.widgets = newWidgetStore()
	s.tx = storage.NewMemoryTx(s.rows, s.widgets)
	s.now = time.Date(2015, time.January, 2, 10, 0, 0, 0, time.UTC)

	var err error
	s.service, err = New(s.rows,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithActorResolver(s.actors),
	)
	s.Require().NoError(err)
	s.repo = NewRepository[*widget](s.service, "Widget", s.widgets, s.widgets.FindByID)
}

func (s *TrackingServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TrackingServiceSuite) workerCtx() context.Context {
	ctx := requestcontext.WithWorker(context.Background(), "badge-printer")
	return requestcontext.WithTime(ctx, s.now)
}

func (s *TrackingServiceSuite) create(ctx context.Context, w *widget) {
	s.Require().NoError(s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, w)
	}))
}

func (s *TrackingServiceSuite) allRows() []*models.Tracking {
	rows, err := s.service.List(context.Background(), models.Filter{})
	s.Require().NoError(err)
	return rows
}

func (s *TrackingServiceSuite) TestNew() {
	s.Run("nil store returns error", func() {
		_, err := New(nil)
		s.ErrorContains(err, "tracking store is required")
	})
}

func (s *TrackingServiceSuite) TestCreated() {
	ctx := requestcontext.WithTime(requestcontext.WithAccountID(context.Background(), id.AccountID(7)), s.now)
	s.actors.EXPECT().AccountName(gomock.Any(), id.AccountID(7)).Return("Rob", nil)

	s.create(ctx, &widget{Name: "lanyard", Count: 3})

	rows := s.allRows()
	s.Require().Len(rows, 1)
	s.Equal(models.ActionCreated, rows[0].Action)
	s.Equal(`name="lanyard", count=3`, rows[0].Data)
	s.Equal("Rob", rows[0].Who)
	s.Equal("Widget lanyard", rows[0].Which)
	s.Equal("Widget", rows[0].Model)
	s.Equal(int64(1), rows[0].FKID)
	s.Equal(s.now, rows[0].When)
}

func (s *TrackingServiceSuite) TestUpdated() {
	s.Run("no field change writes no row", func() {
		s.SetupTest()
		ctx := s.workerCtx()
		w := &widget{Name: "lanyard", Count: 3}
		s.create(ctx, w)

		s.Require().NoError(s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.repo.Update(ctx, &widget{ID: w.ID, Name: "lanyard", Count: 3})
		}))
		s.Len(s.allRows(), 1)
	})

	s.Run("single field change writes one row naming it", func() {
		s.SetupTest()
		ctx := s.workerCtx()
		w := &widget{Name: "lanyard", Count: 3}
		s.create(ctx, w)

		s.Require().NoError(s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.repo.Update(ctx, &widget{ID: w.ID, Name: "lanyard", Count: 4})
		}))
		rows := s.allRows()
		s.Require().Len(rows, 2)
		s.Equal(models.ActionUpdated, rows[0].Action)
		s.Equal("count: 3 -> 4", rows[0].Data)
		s.Equal("badge-printer", rows[0].Who)
	})

	s.Run("diff is against persisted state, not the caller's copy", func() {
		s.SetupTest()
		ctx := s.workerCtx()
		w := &widget{Name: "lanyard", Count: 3}
		s.create(ctx, w)

		w.Count = 5
		w.Name = "badge"
		s.Require().NoError(s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.repo.Update(ctx, w)
		}))
		rows := s.allRows()
		s.Equal(`name: "lanyard" -> "badge", count: 3 -> 5`, rows[0].Data)
	})

	s.Run("missing prior state is an invariant violation", func() {
		s.SetupTest()
		err := s.tx.RunInTx(s.workerCtx(), func(ctx context.Context) error {
			return s.repo.Update(ctx, &widget{ID: 99, Name: "ghost"})
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.Empty(s.allRows())
	})

	s.Run("model without a loader is an invariant violation", func() {
		s.SetupTest()
		err := s.service.Track(s.workerCtx(), models.ActionUpdated, &models.Tracking{ID: 1})
		s.NoError(err, "tracking rows are exempt before any lookup happens")

		err = s.service.Track(s.workerCtx(), models.ActionUpdated, &unregistered{})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

type unregistered struct{ widget }

func (u *unregistered) TrackingModel() string { return "Unregistered" }

func (s *TrackingServiceSuite) TestDeleted() {
	ctx := s.workerCtx()
	w := &widget{Name: "lanyard", Count: 3}
	s.create(ctx, w)

	s.Require().NoError(s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, w)
	}))
	rows := s.allRows()
	s.Require().Len(rows, 2)
	s.Equal(models.ActionDeleted, rows[0].Action)
	s.Empty(rows[0].Data)

	_, err := s.widgets.FindByID(ctx, w.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *TrackingServiceSuite) TestTrackingRowsAreNotTracked() {
	err := s.service.Track(s.workerCtx(), models.ActionCreated, &models.Tracking{ID: 4, Model: "Widget"})
	s.NoError(err)
	s.Empty(s.allRows())
}

func (s *TrackingServiceSuite) TestActorResolution() {
	s.Run("no admin and no worker is non-admin", func() {
		s.SetupTest()
		s.create(context.Background(), &widget{Name: "a"})
		s.Equal(NonAdmin, s.allRows()[0].Who)
	})

	s.Run("unknown account falls back to worker", func() {
		s.SetupTest()
		ctx := requestcontext.WithAccountID(s.workerCtx(), id.AccountID(3))
		s.actors.EXPECT().AccountName(gomock.Any(), id.AccountID(3)).Return("", sentinel.ErrNotFound)

		s.create(ctx, &widget{Name: "a"})
		s.Equal("badge-printer", s.allRows()[0].Who)
	})

	s.Run("resolver failure fails the write", func() {
		s.SetupTest()
		ctx := requestcontext.WithAccountID(s.workerCtx(), id.AccountID(3))
		s.actors.EXPECT().AccountName(gomock.Any(), id.AccountID(3)).Return("", errors.New("db down"))

		err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
			return s.repo.Create(ctx, &widget{Name: "a"})
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Empty(s.allRows())
		s.Empty(s.widgets.rows, "entity insert rolled back with the tracking row")
	})
}

func (s *TrackingServiceSuite) TestStoreFailureFailsTransaction() {
	failing := mocks.NewMockStore(s.ctrl)
	svc, err := New(failing, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
	widgets := newWidgetStore()
	repo := NewRepository[*widget](svc, "Widget", widgets, widgets.FindByID)
	tx := storage.NewMemoryTx(widgets)

	boom := errors.New("disk full")
	failing.EXPECT().Append(gomock.Any(), gomock.Any()).Return(boom)

	err = tx.RunInTx(s.workerCtx(), func(ctx context.Context) error {
		return repo.Create(ctx, &widget{Name: "a"})
	})
	s.ErrorIs(err, boom)
	s.Empty(widgets.rows)
}

func (s *TrackingServiceSuite) TestHistory() {
	ctx := s.workerCtx()
	first := &widget{Name: "a"}
	second := &widget{Name: "b"}
	s.create(ctx, first)
	s.create(ctx, second)

	rows, err := s.service.History(ctx, "Widget", second.ID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Equal(second.ID, rows[0].FKID)
}
