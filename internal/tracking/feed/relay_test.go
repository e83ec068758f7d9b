package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"ubersystem/internal/storage"
	"ubersystem/internal/tracking/metrics"
	"ubersystem/internal/tracking/models"
	"ubersystem/internal/tracking/store"
)

type recordingPublisher struct {
	batches [][]*models.Tracking
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, rows []*models.Tracking) error {
	if p.err != nil {
		return p.err
	}
	p.batches = append(p.batches, rows)
	return nil
}

type RelaySuite struct {
	suite.Suite
	rows      *store.InMemory
	tx        *storage.MemoryTx
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	s.rows = store.NewInMemory()
	s.tx = storage.NewMemoryTx(s.rows)
	s.publisher = &recordingPublisher{}
	s.metrics = metrics.New(prometheus.NewRegistry())
}

func (s *RelaySuite) appendRows(n int) {
	for i := 0; i < n; i++ {
		s.appendRow(context.Background(), int64(i+1))
	}
}

func (s *RelaySuite) appendRow(ctx context.Context, fkID int64) {
	s.Require().NoError(s.rows.Append(ctx, &models.Tracking{
		When:   time.Now(),
		Who:    "non-admin",
		Model:  "Attendee",
		FKID:   fkID,
		Action: models.ActionCreated,
	}))
}

func (s *RelaySuite) newRelay(batch int) *Relay {
	return NewRelay(s.tx, s.rows, s.publisher,
		WithBatchSize(batch),
		WithMetrics(s.metrics),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *RelaySuite) TestFlushPublishesInBatches() {
	s.appendRows(5)
	relay := s.newRelay(2)

	n, err := relay.Flush(context.Background())
	s.Require().NoError(err)
	s.Equal(5, n)
	s.Len(s.publisher.batches, 3)
	s.Equal(float64(5), testutil.ToFloat64(s.metrics.FeedPublished))

	n, err = relay.Flush(context.Background())
	s.Require().NoError(err)
	s.Zero(n, "published rows are not sent twice")
}

func (s *RelaySuite) TestFailedPublishLeavesRowsPending() {
	s.appendRows(3)
	relay := s.newRelay(10)
	s.publisher.err = errors.New("broker unavailable")

	_, err := relay.Flush(context.Background())
	s.Error(err)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.FeedFailures))

	s.publisher.err = nil
	n, err := relay.Flush(context.Background())
	s.Require().NoError(err)
	s.Equal(3, n)
}

func (s *RelaySuite) TestOpenUnitsAreNotPublished() {
	ctx := context.Background()
	relay := s.newRelay(10)
	s.appendRow(ctx, 1)

	appended := make(chan struct{})
	release := make(chan struct{})
	unitDone := make(chan error, 1)
	go func() {
		unitDone <- s.tx.RunInTx(ctx, func(ctx context.Context) error {
			s.appendRow(ctx, 2)
			close(appended)
			<-release
			return errors.New("attendee save failed")
		})
	}()
	<-appended

	flushed := make(chan int, 1)
	go func() {
		n, err := relay.Flush(ctx)
		s.NoError(err)
		flushed <- n
	}()
	select {
	case <-flushed:
		s.Fail("flush ran while a unit of work was open")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	s.Error(<-unitDone)
	s.Equal(1, <-flushed)
	s.Require().Len(s.publisher.batches, 1)
	s.Require().Len(s.publisher.batches[0], 1)
	s.Equal(int64(1), s.publisher.batches[0][0].FKID, "the rolled back row never goes out")
}

func (s *RelaySuite) TestRowsCommittedLaterAreStillPublished() {
	ctx := context.Background()
	relay := s.newRelay(10)
	s.appendRows(2)
	_, err := relay.Flush(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.tx.RunInTx(ctx, func(ctx context.Context) error {
		s.appendRow(ctx, 3)
		return nil
	}))
	n, err := relay.Flush(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *RelaySuite) TestRunStopsOnCancel() {
	relay := NewRelay(s.tx, s.rows, s.publisher, WithInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	s.appendRows(1)

	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	s.Eventually(func() bool {
		return s.pending() == 0
	}, time.Second, time.Millisecond)
	cancel()
	s.ErrorIs(<-done, context.Canceled)
}

func (s *RelaySuite) pending() int {
	var rows []*models.Tracking
	_ = s.tx.RunInTx(context.Background(), func(ctx context.Context) error {
		var err error
		rows, err = s.rows.ClaimUnpublished(ctx, 0)
		return err
	})
	return len(rows)
}

func (s *RelaySuite) TestNewMessage() {
	row := &models.Tracking{
		ID:     9,
		When:   time.Date(2015, time.January, 2, 10, 0, 0, 0, time.UTC),
		Who:    "Rob",
		Which:  "Staff #4 Ada Lovelace",
		Model:  "Attendee",
		FKID:   4,
		Action: models.ActionUpdated,
		Data:   "badge_num: 3 -> 4",
	}
	msg := NewMessage(row)
	s.Equal("updated", msg.Action)
	s.Equal("2015-01-02T10:00:00Z", msg.When)
	s.Equal(int64(9), msg.ID)
}
