package store

import (
	"context"
	"maps"
	"slices"
	"sync"

	"ubersystem/internal/tracking/models"
	id "ubersystem/pkg/domain"
)

// InMemory keeps tracking rows in insertion order. Feed claims must run in
// the MemoryTx the store is enlisted in, so rows of an open unit are not
// visible to them.
type InMemory struct {
	mu        sync.RWMutex
	rows      []models.Tracking
	published map[id.TrackingID]struct{}
	nextID    id.TrackingID
}

func NewInMemory() *InMemory {
	return &InMemory{nextID: 1, published: make(map[id.TrackingID]struct{})}
}

func (s *InMemory) Append(_ context.Context, row *models.Tracking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, *row)
	return nil
}

// List returns matching rows newest first.
func (s *InMemory) List(_ context.Context, filter models.Filter) ([]*models.Tracking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Tracking
	for i := len(s.rows) - 1; i >= 0; i-- {
		row := s.rows[i]
		if !matches(row, filter) {
			continue
		}
		out = append(out, &row)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// ClaimUnpublished returns up to limit unpublished rows, oldest first.
func (s *InMemory) ClaimUnpublished(_ context.Context, limit int) ([]*models.Tracking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Tracking
	for _, row := range s.rows {
		if _, done := s.published[row.ID]; done {
			continue
		}
		out = append(out, &row)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemory) MarkPublished(_ context.Context, ids []id.TrackingID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rowID := range ids {
		s.published[rowID] = struct{}{}
	}
	return nil
}

// Snapshot implements storage.Participant. Ids handed out inside a rolled
// back unit are not reused, matching a database sequence.
func (s *InMemory) Snapshot() func() {
	s.mu.RLock()
	saved := slices.Clone(s.rows)
	published := maps.Clone(s.published)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = saved
		s.published = published
	}
}

func matches(row models.Tracking, filter models.Filter) bool {
	if filter.Model != "" && row.Model != filter.Model {
		return false
	}
	if filter.FKID != 0 && row.FKID != filter.FKID {
		return false
	}
	return row.ID > filter.AfterID
}
