package tx

import (
	"context"
	"database/sql"
	"sync"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Executor is the subset of *sql.DB and *sql.Tx used by the SQL stores.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Exec returns the transaction carried by ctx, or db when there is none, so a
// store joins whatever unit of work its caller opened.
func Exec(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

type doneKey struct{}

// Done collects callbacks for the end of the outermost unit of work.
type Done struct {
	mu  sync.Mutex
	fns []func()
}

// WithDone attaches a fresh Done to ctx. The runner that opened the unit of
// work calls Run once it has committed or rolled back.
func WithDone(ctx context.Context) (context.Context, *Done) {
	d := &Done{}
	return context.WithValue(ctx, doneKey{}, d), d
}

// OnDone registers fn to run when the unit of work on ctx ends, whether it
// committed or not. Outside a unit of work fn runs immediately.
func OnDone(ctx context.Context, fn func()) {
	d, ok := ctx.Value(doneKey{}).(*Done)
	if !ok {
		fn()
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fns = append(d.fns, fn)
}

func (d *Done) Run() {
	d.mu.Lock()
	fns := d.fns
	d.fns = nil
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
