// Package feed copies committed tracking rows to an external stream for
// downstream consumers (ops dashboards, the regdesk display). The tracking
// table stays authoritative and doubles as the outbox: every row starts
// unpublished, and the relay claims and marks rows inside one unit of work,
// so rows of a unit still open are never seen. A row whose publish succeeded
// but whose mark did not commit goes out again; consumers dedupe on id.
package feed

import (
	"context"
	"log/slog"
	"time"

	"ubersystem/internal/tracking/metrics"
	"ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
)

// Outbox hands out committed rows that have not been published yet.
type Outbox interface {
	// ClaimUnpublished returns up to limit unpublished rows, oldest first.
	// The claim holds until the unit of work on ctx ends.
	ClaimUnpublished(ctx context.Context, limit int) ([]*models.Tracking, error)
	MarkPublished(ctx context.Context, ids []id.TrackingID) error
}

// Publisher delivers a batch of rows; it returns nil only if every row was
// accepted.
type Publisher interface {
	Publish(ctx context.Context, rows []*models.Tracking) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Relay struct {
	tx        TxRunner
	outbox    Outbox
	publisher Publisher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Relay) {
		r.metrics = m
	}
}

// WithInterval sets the polling period.
func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithBatchSize caps the rows read per poll.
func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func NewRelay(tx TxRunner, outbox Outbox, publisher Publisher, opts ...Option) *Relay {
	r := &Relay{
		tx:        tx,
		outbox:    outbox,
		publisher: publisher,
		interval:  2 * time.Second,
		batchSize: 200,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.Flush(ctx); err != nil && ctx.Err() == nil {
				r.logger.WarnContext(ctx, "tracking feed publish failed, will retry", "error", err)
			}
		}
	}
}

// Flush publishes every pending row in batches and returns how many went out.
// A batch is marked published only if the publisher accepted all of it.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	published := 0
	for {
		n, err := r.flushBatch(ctx)
		if err != nil {
			return published, err
		}
		published += n
		if r.metrics != nil && n > 0 {
			r.metrics.AddFeedPublished(n)
		}
		if n < r.batchSize {
			return published, nil
		}
	}
}

func (r *Relay) flushBatch(ctx context.Context) (int, error) {
	var n int
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		rows, err := r.outbox.ClaimUnpublished(ctx, r.batchSize)
		if err != nil || len(rows) == 0 {
			return err
		}
		if err := r.publisher.Publish(ctx, rows); err != nil {
			if r.metrics != nil {
				r.metrics.IncFeedFailures()
			}
			return err
		}
		ids := make([]id.TrackingID, len(rows))
		for i, row := range rows {
			ids[i] = row.ID
		}
		if err := r.outbox.MarkPublished(ctx, ids); err != nil {
			return err
		}
		n = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
