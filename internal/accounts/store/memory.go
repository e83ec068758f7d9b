// Package store persists accounts.
package store

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"

	"ubersystem/internal/accounts/models"
	id "ubersystem/pkg/domain"
	"ubersystem/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.RWMutex
	rows   map[id.AccountID]*models.Account
	nextID id.AccountID
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[id.AccountID]*models.Account), nextID: 1}
}

func (s *InMemory) Insert(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEmail(a); err != nil {
		return err
	}
	a.ID = s.nextID
	s.nextID++
	s.rows[a.ID] = a.Clone()
	return nil
}

func (s *InMemory) Update(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.ID]; !ok {
		return fmt.Errorf("account %d: %w", a.ID, sentinel.ErrNotFound)
	}
	if err := s.checkEmail(a); err != nil {
		return err
	}
	s.rows[a.ID] = a.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.ID]; !ok {
		return fmt.Errorf("account %d: %w", a.ID, sentinel.ErrNotFound)
	}
	delete(s.rows, a.ID)
	return nil
}

// checkEmail mirrors the unique index on accounts.email.
func (s *InMemory) checkEmail(a *models.Account) error {
	for _, other := range s.rows {
		if other.ID != a.ID && strings.EqualFold(other.Email, a.Email) {
			return fmt.Errorf("email %s: %w", a.Email, sentinel.ErrConflict)
		}
	}
	return nil
}

func (s *InMemory) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.rows[accountID]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, sentinel.ErrNotFound)
	}
	return a.Clone(), nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.rows {
		if strings.EqualFold(a.Email, email) {
			return a.Clone(), nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", email, sentinel.ErrNotFound)
}

// Snapshot implements storage.Participant.
func (s *InMemory) Snapshot() func() {
	s.mu.RLock()
	saved := maps.Clone(s.rows)
	s.mu.RUnlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.rows = saved
	}
}
