package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	accountservice "ubersystem/internal/accounts/service"
	accountstore "ubersystem/internal/accounts/store"
	"ubersystem/internal/platform/config"
	"ubersystem/internal/platform/postgres"
	regservice "ubersystem/internal/registration/service"
	regstore "ubersystem/internal/registration/store"
	staffservice "ubersystem/internal/staffing/service"
	staffstore "ubersystem/internal/staffing/store"
	"ubersystem/internal/storage"
	"ubersystem/internal/tracking/feed"
	trackingservice "ubersystem/internal/tracking/service"
	trackingstore "ubersystem/internal/tracking/store"
)

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type attendeeStore interface {
	regservice.AttendeeNumberingStore
	staffservice.AttendeeReader
}

type trailStore interface {
	trackingservice.Store
	feed.Outbox
}

// backend is one complete set of stores sharing a unit of work.
type backend struct {
	name      string
	tx        txRunner
	attendees attendeeStore
	groups    regservice.GroupStore
	jobs      staffservice.JobStore
	shifts    staffservice.ShiftStore
	accounts  accountservice.Store
	trail     trailStore
	db        *sql.DB
}

func (b *backend) ping(ctx context.Context) error {
	if b.db == nil {
		return nil
	}
	return b.db.PingContext(ctx)
}

func (b *backend) close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

// openBackend uses Postgres when DATABASE_URL is set and the in-memory
// stores otherwise.
func openBackend(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*backend, error) {
	if cfg.URL == "" {
		log.Warn("DATABASE_URL not set, data lives in memory only")
		return newMemoryBackend(), nil
	}

	db, err := postgres.Open(ctx, cfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &backend{
		name:      "postgres",
		tx:        postgres.NewTxManager(db),
		attendees: regstore.NewAttendeePostgres(db),
		groups:    regstore.NewGroupPostgres(db),
		jobs:      staffstore.NewJobPostgres(db),
		shifts:    staffstore.NewShiftPostgres(db),
		accounts:  accountstore.NewPostgres(db),
		trail:     trackingstore.NewPostgres(db),
		db:        db,
	}, nil
}

func newMemoryBackend() *backend {
	var (
		attendees = regstore.NewAttendeeMemory()
		groups    = regstore.NewGroupMemory()
		jobs      = staffstore.NewJobMemory()
		shifts    = staffstore.NewShiftMemory()
		accounts  = accountstore.NewInMemory()
		trail     = trackingstore.NewInMemory()
	)
	return &backend{
		name:      "memory",
		tx:        storage.NewMemoryTx(trail, attendees, groups, jobs, shifts, accounts),
		attendees: attendees,
		groups:    groups,
		jobs:      jobs,
		shifts:    shifts,
		accounts:  accounts,
		trail:     trail,
	}
}
