package testutil

import (
	"context"
	"time"

	id "ubersystem/pkg/domain"
	"ubersystem/pkg/requestcontext"
)

// AdminContext returns a context acting as the given administrator with a
// pinned clock, the state an authenticated admin request reaches services in.
func AdminContext(accountID id.AccountID, now time.Time) context.Context {
	ctx := requestcontext.WithAccountID(context.Background(), accountID)
	return requestcontext.WithTime(ctx, now)
}

// WorkerContext returns a context for a named background worker with a pinned
// clock.
func WorkerContext(name string, now time.Time) context.Context {
	ctx := requestcontext.WithWorker(context.Background(), name)
	return requestcontext.WithTime(ctx, now)
}

// Date builds a UTC timestamp, keeping pricing fixtures short.
func Date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
