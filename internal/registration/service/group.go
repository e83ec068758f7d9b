package service

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
	dErrors "ubersystem/pkg/domain-errors"
	"ubersystem/pkg/requestcontext"
)

func (s *Service) GetGroup(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	g, err := s.groupStore.FindByID(ctx, groupID)
	if err != nil {
		return nil, loadError(err, "group")
	}
	return g, nil
}

// Roster loads a group and its members.
func (s *Service) Roster(ctx context.Context, groupID id.GroupID) (models.GroupRoster, error) {
	g, err := s.groupStore.FindByID(ctx, groupID)
	if err != nil {
		return models.GroupRoster{}, loadError(err, "group")
	}
	members, err := s.attendeeStore.ListByGroup(ctx, groupID)
	if err != nil {
		return models.GroupRoster{}, loadError(err, "group members")
	}
	return models.GroupRoster{Group: g, Members: members}, nil
}

// GroupTotalCost prices the group's tables and the badges it pays for.
func (s *Service) GroupTotalCost(ctx context.Context, groupID id.GroupID) (int, error) {
	roster, err := s.Roster(ctx, groupID)
	if err != nil {
		return 0, err
	}
	return s.TotalCost(ctx, roster), nil
}

// SaveGroup validates and writes g, recomputing AmountOwed from the current
// members when AutoRecalc is set.
func (s *Service) SaveGroup(ctx context.Context, g *models.Group) error {
	ctx, span := tracer.Start(ctx, "registration.SaveGroup", trace.WithAttributes(
		attribute.Int64("group.id", int64(g.ID)),
	))
	defer span.End()

	if err := g.Validate(); err != nil {
		s.recordSave(models.GroupModel, err)
		return err
	}

	work := g.Clone()
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.saveGroupTx(ctx, work)
	})
	s.recordSave(models.GroupModel, err)
	if err != nil {
		return err
	}
	*g = *work
	return nil
}

func (s *Service) saveGroupTx(ctx context.Context, g *models.Group) error {
	isNew := g.ID.IsNil()
	var members []*models.Attendee
	if !isNew {
		if _, err := s.groupStore.FindByID(ctx, g.ID); err != nil {
			return loadError(err, "group")
		}
		var err error
		if members, err = s.attendeeStore.ListByGroup(ctx, g.ID); err != nil {
			return loadError(err, "group members")
		}
	}
	if isNew && g.Registered.IsZero() {
		g.Registered = requestcontext.Now(ctx)
	}

	roster := models.GroupRoster{Group: g, Members: members}
	if err := roster.CheckTables(); err != nil {
		return err
	}
	if g.AutoRecalc {
		g.AmountOwed = roster.TotalCost(s.events.Current())
	}

	var err error
	if isNew {
		err = s.groups.Create(ctx, g)
	} else {
		err = s.groups.Update(ctx, g)
	}
	if err != nil {
		return writeError(err, "group")
	}
	return nil
}

// DeleteGroup removes a group. Unclaimed placeholder badges go with it;
// members who registered themselves stay on as individual attendees.
func (s *Service) DeleteGroup(ctx context.Context, groupID id.GroupID) error {
	ctx, span := tracer.Start(ctx, "registration.DeleteGroup", trace.WithAttributes(
		attribute.Int64("group.id", int64(groupID)),
	))
	defer span.End()

	return s.withBadgeLock(ctx, func(ctx context.Context) error {
		roster, err := s.Roster(ctx, groupID)
		if err != nil {
			return err
		}
		for _, a := range roster.Members {
			if a.Placeholder && a.IsUnassigned() {
				if err := s.deleteAttendeeTx(ctx, a.ID); err != nil {
					return err
				}
				continue
			}
			a.GroupID = 0
			if err := s.attendees.Update(ctx, a); err != nil {
				return writeError(err, "attendee")
			}
		}
		if err := s.groups.Delete(ctx, roster.Group); err != nil {
			return writeError(err, "group")
		}
		s.logger.InfoContext(ctx, "group deleted", "group_id", groupID.String())
		return nil
	})
}

// AssignGroupBadges grows the group to n badges with unclaimed placeholders,
// or shrinks it by deleting unclaimed placeholders, newest first. It fails
// when shrinking would remove somebody who already registered. The group is
// saved afterwards so its cost follows the new size.
func (s *Service) AssignGroupBadges(ctx context.Context, groupID id.GroupID, n int) error {
	ctx, span := tracer.Start(ctx, "registration.AssignGroupBadges", trace.WithAttributes(
		attribute.Int64("group.id", int64(groupID)),
		attribute.Int("badges", n),
	))
	defer span.End()

	if n < 0 {
		return dErrors.New(dErrors.CodeValidation, "badge count cannot be negative")
	}
	return s.withBadgeLock(ctx, func(ctx context.Context) error {
		roster, err := s.Roster(ctx, groupID)
		if err != nil {
			return err
		}
		current := roster.Badges()

		switch {
		case n > current:
			for range n - current {
				placeholder := &models.Attendee{
					GroupID:     groupID,
					Placeholder: true,
					BadgeType:   models.AttendeeBadge,
					Paid:        models.PaidByGroup,
				}
				if err := s.saveAttendeeTx(ctx, placeholder); err != nil {
					return err
				}
			}
		case n < current:
			var removable []*models.Attendee
			for _, a := range slices.Backward(roster.Members) {
				if a.Placeholder && a.IsUnassigned() {
					removable = append(removable, a)
				}
			}
			excess := current - n
			if len(removable) < excess {
				return dErrors.Newf(dErrors.CodeConflict,
					"cannot remove %d badges: only %d are unclaimed", excess, len(removable))
			}
			for _, a := range removable[:excess] {
				if err := s.deleteAttendeeTx(ctx, a.ID); err != nil {
					return err
				}
			}
		}
		return s.saveGroupTx(ctx, roster.Group)
	})
}
