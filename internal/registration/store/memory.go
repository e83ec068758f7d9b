// Package store persists attendees and groups. The in-memory stores keep
// copies and implement storage.Participant so a MemoryTx can roll them back;
// the Postgres stores join the transaction carried on the context.
package store

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"ubersystem/internal/registration/badges"
	"ubersystem/internal/registration/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/sentinel"
)

type AttendeeMemory struct {
	mu     sync.RWMutex
	rows   map[id.AttendeeID]*models.Attendee
	nextID id.AttendeeID
}

func NewAttendeeMemory() *AttendeeMemory {
	return &AttendeeMemory{rows: make(map[id.AttendeeID]*models.Attendee), nextID: 1}
}

func (s *AttendeeMemory) Insert(_ context.Context, a *models.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkBadgeUnique(a); err != nil {
		return err
	}
	a.ID = s.nextID
	s.nextID++
	s.rows[a.ID] = a.Clone()
	return nil
}

func (s *AttendeeMemory) Update(_ context.Context, a *models.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.ID]; !ok {
		return fmt.Errorf("attendee %d: %w", a.ID, sentinel.ErrNotFound)
	}
	if err := s.checkBadgeUnique(a); err != nil {
		return err
	}
	s.rows[a.ID] = a.Clone()
	return nil
}

func (s *AttendeeMemory) Delete(_ context.Context, a *models.Attendee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.ID]; !ok {
		return fmt.Errorf("attendee %d: %w", a.ID, sentinel.ErrNotFound)
	}
	delete(s.rows, a.ID)
	return nil
}

// checkBadgeUnique mirrors the (badge_type, badge_num) constraint.
func (s *AttendeeMemory) checkBadgeUnique(a *models.Attendee) error {
	if a.BadgeNum == 0 {
		return nil
	}
	for _, other := range s.rows {
		if other.ID != a.ID && other.BadgeType == a.BadgeType && other.BadgeNum == a.BadgeNum {
			return fmt.Errorf("%s #%d already taken: %w", a.BadgeType, a.BadgeNum, sentinel.ErrConflict)
		}
	}
	return nil
}

func (s *AttendeeMemory) FindByID(_ context.Context, attendeeID id.AttendeeID) (*models.Attendee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.rows[attendeeID]
	if !ok {
		return nil, fmt.Errorf("attendee %d: %w", attendeeID, sentinel.ErrNotFound)
	}
	return a.Clone(), nil
}

// ListByGroup returns the group's members ordered by id.
func (s *AttendeeMemory) ListByGroup(_ context.Context, groupID id.GroupID) ([]*models.Attendee, error) {
	return s.collect(func(a *models.Attendee) bool { return a.GroupID == groupID }, byID), nil
}

// ListStaffers returns attendees with Staffing set, ordered by last then first
// name.
func (s *AttendeeMemory) ListStaffers(context.Context) ([]*models.Attendee, error) {
	return s.collect(func(a *models.Attendee) bool { return a.Staffing }, byLastFirst), nil
}

func (s *AttendeeMemory) collect(keep func(*models.Attendee) bool, order func(a, b *models.Attendee) int) []*models.Attendee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Attendee
	for _, a := range s.rows {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	slices.SortFunc(out, order)
	return out
}

func byID(a, b *models.Attendee) int { return cmp.Compare(a.ID, b.ID) }

func byLastFirst(a, b *models.Attendee) int {
	return cmp.Or(
		cmp.Compare(a.LastName, b.LastName),
		cmp.Compare(a.FirstName, b.FirstName),
		cmp.Compare(a.ID, b.ID),
	)
}

func (s *AttendeeMemory) MaxBadgeNum(_ context.Context, badgeType models.BadgeType, r badges.Range) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	highest := 0
	for _, a := range s.rows {
		if a.BadgeType == badgeType && r.Contains(a.BadgeNum) {
			highest = max(highest, a.BadgeNum)
		}
	}
	return highest, nil
}

func (s *AttendeeMemory) ShiftBadgeNums(_ context.Context, badgeType models.BadgeType, from int, down bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.BadgeType != badgeType || a.BadgeNum == 0 {
			continue
		}
		switch {
		case down && a.BadgeNum > from:
			a.BadgeNum--
		case !down && a.BadgeNum >= from:
			a.BadgeNum++
		}
	}
	return nil
}

// Snapshot implements storage.Participant.
func (s *AttendeeMemory) Snapshot() func() {
	s.mu.RLock()
	saved := make(map[id.AttendeeID]*models.Attendee, len(s.rows))
	for k, v := range s.rows {
		saved[k] = v.Clone()
	}
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = saved
	}
}

type GroupMemory struct {
	mu     sync.RWMutex
	rows   map[id.GroupID]models.Group
	nextID id.GroupID
}

func NewGroupMemory() *GroupMemory {
	return &GroupMemory{rows: make(map[id.GroupID]models.Group), nextID: 1}
}

func (s *GroupMemory) Insert(_ context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.nextID
	s.nextID++
	s.rows[g.ID] = *g
	return nil
}

func (s *GroupMemory) Update(_ context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[g.ID]; !ok {
		return fmt.Errorf("group %d: %w", g.ID, sentinel.ErrNotFound)
	}
	s.rows[g.ID] = *g
	return nil
}

func (s *GroupMemory) Delete(_ context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[g.ID]; !ok {
		return fmt.Errorf("group %d: %w", g.ID, sentinel.ErrNotFound)
	}
	delete(s.rows, g.ID)
	return nil
}

func (s *GroupMemory) FindByID(_ context.Context, groupID id.GroupID) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.rows[groupID]
	if !ok {
		return nil, fmt.Errorf("group %d: %w", groupID, sentinel.ErrNotFound)
	}
	return &g, nil
}

// Snapshot implements storage.Participant.
func (s *GroupMemory) Snapshot() func() {
	s.mu.RLock()
	saved := maps.Clone(s.rows)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = saved
	}
}
