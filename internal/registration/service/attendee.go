package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/requestcontext"
)

// GetAttendee returns the persisted attendee.
func (s *Service) GetAttendee(ctx context.Context, attendeeID id.AttendeeID) (*models.Attendee, error) {
	a, err := s.attendeeStore.FindByID(ctx, attendeeID)
	if err != nil {
		return nil, loadError(err, "attendee")
	}
	return a, nil
}

// SaveAttendee validates a, runs the save hooks and writes it. A zero ID
// inserts. On success a holds the stored state, including its id and any
// badge number allocated; on failure a is left as it was passed in.
func (s *Service) SaveAttendee(ctx context.Context, a *models.Attendee) error {
	ctx, span := tracer.Start(ctx, "registration.SaveAttendee", trace.WithAttributes(
		attribute.Int64("attendee.id", int64(a.ID)),
	))
	defer span.End()

	if err := a.Validate(); err != nil {
		s.recordSave(models.AttendeeModel, err)
		return err
	}

	work := a.Clone()
	err := s.withBadgeLock(ctx, func(ctx context.Context) error {
		return s.saveAttendeeTx(ctx, work)
	})
	s.recordSave(models.AttendeeModel, err)
	if err != nil {
		span.RecordError(err)
		return err
	}
	*a = *work
	return nil
}

// saveAttendeeTx runs inside the caller's unit of work with the badge lock
// held. It does not validate: placeholders created for groups are written
// without the fields a person fills in.
func (s *Service) saveAttendeeTx(ctx context.Context, a *models.Attendee) error {
	isNew := a.ID.IsNil()
	if !isNew {
		if _, err := s.attendeeStore.FindByID(ctx, a.ID); err != nil {
			return loadError(err, "attendee")
		}
	}
	if a.InGroup() {
		if _, err := s.groupStore.FindByID(ctx, a.GroupID); err != nil {
			return loadError(err, "group")
		}
	}

	now := requestcontext.Now(ctx)
	if isNew && a.Registered.IsZero() {
		a.Registered = now
	}
	sc := SaveContext{
		State:    s.events.Current(),
		IsNew:    isNew,
		Now:      now,
		Numberer: s.numberer,
	}
	if err := runHooks(ctx, s.hooks, sc, a); err != nil {
		return err
	}

	var err error
	if isNew {
		err = s.attendees.Create(ctx, a)
	} else {
		err = s.attendees.Update(ctx, a)
	}
	if err != nil {
		return writeError(err, "attendee")
	}
	s.logger.DebugContext(ctx, "attendee saved",
		"attendee_id", a.ID.String(),
		"badge", a.BadgeLabel(),
		"created", isNew,
	)
	return nil
}

// DeleteAttendee removes the attendee and their shifts, then closes the gap
// their badge number leaves.
func (s *Service) DeleteAttendee(ctx context.Context, attendeeID id.AttendeeID) error {
	ctx, span := tracer.Start(ctx, "registration.DeleteAttendee", trace.WithAttributes(
		attribute.Int64("attendee.id", int64(attendeeID)),
	))
	defer span.End()

	return s.withBadgeLock(ctx, func(ctx context.Context) error {
		return s.deleteAttendeeTx(ctx, attendeeID)
	})
}

func (s *Service) deleteAttendeeTx(ctx context.Context, attendeeID id.AttendeeID) error {
	a, err := s.attendeeStore.FindByID(ctx, attendeeID)
	if err != nil {
		return loadError(err, "attendee")
	}
	if s.shifts != nil {
		if err := s.shifts.DeleteShiftsForAttendee(ctx, attendeeID); err != nil {
			return err
		}
	}
	if err := s.attendees.Delete(ctx, a); err != nil {
		return writeError(err, "attendee")
	}
	if a.BadgeNum != 0 {
		if err := s.numberer.ShiftBadges(ctx, a.BadgeType, a.BadgeNum, true); err != nil {
			return err
		}
	}
	s.logger.InfoContext(ctx, "attendee deleted",
		"attendee_id", attendeeID.String(),
		"badge", a.BadgeLabel(),
	)
	return nil
}

// TotalCost prices p under the current event state.
func (s *Service) TotalCost(_ context.Context, p models.Priceable) int {
	return p.TotalCost(s.events.Current())
}
