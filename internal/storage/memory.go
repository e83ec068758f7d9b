package storage

import (
	"context"
	"sync"

	dErrors "ubersystem/pkg/domain-errors"
	txcontext "ubersystem/pkg/platform/tx"
)

// Participant is an in-memory store that can join a MemoryTx. Snapshot
// captures the current contents and returns a function restoring them.
type Participant interface {
	Snapshot() (restore func())
}

type memoryTxKey struct{}

// MemoryTx gives the in-memory stores the same all-or-nothing behaviour as a
// SQL transaction: units of work run one at a time and every enlisted store is
// restored when the work fails.
type MemoryTx struct {
	mu           sync.Mutex
	participants []Participant
}

func NewMemoryTx(participants ...Participant) *MemoryTx {
	return &MemoryTx{participants: participants}
}

// Enlist adds stores after construction; call it before serving traffic.
func (m *MemoryTx) Enlist(participants ...Participant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants = append(m.participants, participants...)
}

// RunInTx runs fn as one unit of work. Nested calls on a context already inside
// this MemoryTx join the outer unit. Callbacks registered with
// txcontext.OnDone run after the lock is released.
func (m *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if owner, ok := ctx.Value(memoryTxKey{}).(*MemoryTx); ok && owner == m {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	ctx, done := txcontext.WithDone(ctx)
	defer done.Run()
	return m.run(ctx, fn)
}

func (m *MemoryTx) run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	restores := make([]func(), 0, len(m.participants))
	for _, p := range m.participants {
		restores = append(restores, p.Snapshot())
	}

	err := fn(context.WithValue(ctx, memoryTxKey{}, m))
	if err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		return err
	}
	return nil
}
