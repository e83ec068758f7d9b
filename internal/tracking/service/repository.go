package service

import (
	"context"

	"ubersystem/internal/tracking/models"
)

// EntityStore is the raw persistence of one trackable entity type. Insert
// assigns the id.
type EntityStore[T models.Trackable] interface {
	Insert(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, entity T) error
}

// Tracker is the part of Service a Repository needs.
type Tracker interface {
	Track(ctx context.Context, action models.Action, entity models.Trackable) error
	RegisterLoader(model string, loader Loader)
}

// Repository writes entities and their tracking rows together. Every method
// must be called inside the caller's RunInTx so the entity write and the
// tracking row commit or roll back as one.
type Repository[T models.Trackable] struct {
	store   EntityStore[T]
	tracker Tracker
}

// NewRepository binds store to tracker and registers load as the prior-state
// reader for model.
func NewRepository[T models.Trackable](
	tracker Tracker,
	model string,
	store EntityStore[T],
	load func(ctx context.Context, id int64) (T, error),
) *Repository[T] {
	tracker.RegisterLoader(model, func(ctx context.Context, id int64) (models.Trackable, error) {
		entity, err := load(ctx, id)
		if err != nil {
			return nil, err
		}
		return entity, nil
	})
	return &Repository[T]{store: store, tracker: tracker}
}

// Create inserts entity, then records every field.
func (r *Repository[T]) Create(ctx context.Context, entity T) error {
	if err := r.store.Insert(ctx, entity); err != nil {
		return err
	}
	return r.tracker.Track(ctx, models.ActionCreated, entity)
}

// Update records the diff against the persisted row, then writes entity.
func (r *Repository[T]) Update(ctx context.Context, entity T) error {
	if err := r.tracker.Track(ctx, models.ActionUpdated, entity); err != nil {
		return err
	}
	return r.store.Update(ctx, entity)
}

// Delete records the deletion, then removes entity.
func (r *Repository[T]) Delete(ctx context.Context, entity T) error {
	if err := r.tracker.Track(ctx, models.ActionDeleted, entity); err != nil {
		return err
	}
	return r.store.Delete(ctx, entity)
}
