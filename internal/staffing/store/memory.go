// Package store persists jobs and shifts, in memory or in Postgres.
package store

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	regmodels "ubersystem/internal/registration/models"
	"ubersystem/internal/staffing/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/sentinel"
)

type JobMemory struct {
	mu     sync.RWMutex
	rows   map[id.JobID]models.Job
	nextID id.JobID
}

func NewJobMemory() *JobMemory {
	return &JobMemory{rows: make(map[id.JobID]models.Job), nextID: 1}
}

func (s *JobMemory) Insert(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j.ID = s.nextID
	s.nextID++
	s.rows[j.ID] = *j
	return nil
}

func (s *JobMemory) Update(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[j.ID]; !ok {
		return fmt.Errorf("job %d: %w", j.ID, sentinel.ErrNotFound)
	}
	s.rows[j.ID] = *j
	return nil
}

func (s *JobMemory) Delete(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[j.ID]; !ok {
		return fmt.Errorf("job %d: %w", j.ID, sentinel.ErrNotFound)
	}
	delete(s.rows, j.ID)
	return nil
}

func (s *JobMemory) FindByID(_ context.Context, jobID id.JobID) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.rows[jobID]
	if !ok {
		return nil, fmt.Errorf("job %d: %w", jobID, sentinel.ErrNotFound)
	}
	return &j, nil
}

// LockByID is FindByID: a MemoryTx already runs units of work one at a time.
func (s *JobMemory) LockByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	return s.FindByID(ctx, jobID)
}

// List returns every job ordered by start time.
func (s *JobMemory) List(context.Context) ([]*models.Job, error) {
	return s.collect(func(*models.Job) bool { return true }), nil
}

// ListByLocations returns the jobs at any of locs ordered by start time.
func (s *JobMemory) ListByLocations(_ context.Context, locs []regmodels.Dept) ([]*models.Job, error) {
	return s.collect(func(j *models.Job) bool { return slices.Contains(locs, j.Location) }), nil
}

func (s *JobMemory) ListByIDs(_ context.Context, ids []id.JobID) ([]*models.Job, error) {
	return s.collect(func(j *models.Job) bool { return slices.Contains(ids, j.ID) }), nil
}

func (s *JobMemory) collect(keep func(*models.Job) bool) []*models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Job
	for _, j := range s.rows {
		if keep(&j) {
			out = append(out, &j)
		}
	}
	slices.SortFunc(out, func(a, b *models.Job) int {
		return cmp.Or(a.StartTime.Compare(b.StartTime), cmp.Compare(a.ID, b.ID))
	})
	return out
}

// Snapshot implements storage.Participant.
func (s *JobMemory) Snapshot() func() {
	s.mu.RLock()
	saved := maps.Clone(s.rows)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = saved
	}
}

type ShiftMemory struct {
	mu     sync.RWMutex
	rows   map[id.ShiftID]models.Shift
	nextID id.ShiftID
}

func NewShiftMemory() *ShiftMemory {
	return &ShiftMemory{rows: make(map[id.ShiftID]models.Shift), nextID: 1}
}

func (s *ShiftMemory) Insert(_ context.Context, sh *models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.rows {
		if other.JobID == sh.JobID && other.AttendeeID == sh.AttendeeID {
			return fmt.Errorf("attendee %d already on job %d: %w", sh.AttendeeID, sh.JobID, sentinel.ErrConflict)
		}
	}
	sh.ID = s.nextID
	s.nextID++
	s.rows[sh.ID] = *sh
	return nil
}

func (s *ShiftMemory) Update(_ context.Context, sh *models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[sh.ID]; !ok {
		return fmt.Errorf("shift %d: %w", sh.ID, sentinel.ErrNotFound)
	}
	s.rows[sh.ID] = *sh
	return nil
}

func (s *ShiftMemory) Delete(_ context.Context, sh *models.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[sh.ID]; !ok {
		return fmt.Errorf("shift %d: %w", sh.ID, sentinel.ErrNotFound)
	}
	delete(s.rows, sh.ID)
	return nil
}

func (s *ShiftMemory) FindByID(_ context.Context, shiftID id.ShiftID) (*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.rows[shiftID]
	if !ok {
		return nil, fmt.Errorf("shift %d: %w", shiftID, sentinel.ErrNotFound)
	}
	return &sh, nil
}

func (s *ShiftMemory) ListByAttendee(_ context.Context, attendeeID id.AttendeeID) ([]*models.Shift, error) {
	return s.collect(func(sh *models.Shift) bool { return sh.AttendeeID == attendeeID }), nil
}

func (s *ShiftMemory) ListByJob(_ context.Context, jobID id.JobID) ([]*models.Shift, error) {
	return s.collect(func(sh *models.Shift) bool { return sh.JobID == jobID }), nil
}

func (s *ShiftMemory) List(context.Context) ([]*models.Shift, error) {
	return s.collect(func(*models.Shift) bool { return true }), nil
}

// CountByJob returns how many shifts each job has; jobs without shifts are
// absent.
func (s *ShiftMemory) CountByJob(context.Context) (map[id.JobID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[id.JobID]int)
	for _, sh := range s.rows {
		counts[sh.JobID]++
	}
	return counts, nil
}

func (s *ShiftMemory) collect(keep func(*models.Shift) bool) []*models.Shift {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Shift
	for _, sh := range s.rows {
		if keep(&sh) {
			out = append(out, &sh)
		}
	}
	slices.SortFunc(out, func(a, b *models.Shift) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Snapshot implements storage.Participant.
func (s *ShiftMemory) Snapshot() func() {
	s.mu.RLock()
	saved := maps.Clone(s.rows)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = saved
	}
}
