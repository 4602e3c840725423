package loc

import (
	"context"
	"fmt"
	"sync"

	"locreg/internal/loc/models"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
)

// InMemory stores LOCs and their lookup indexes in memory.
// Records are cloned on the way in and out so callers never share state.
type InMemory struct {
	mu            sync.RWMutex
	locs          map[id.LocID]*models.LegalOfficerCase
	byAccount     map[id.AccountID][]id.LocID
	byIdentityLoc map[id.LocID][]id.LocID
}

func NewInMemory() *InMemory {
	return &InMemory{
		locs:          make(map[id.LocID]*models.LegalOfficerCase),
		byAccount:     make(map[id.AccountID][]id.LocID),
		byIdentityLoc: make(map[id.LocID][]id.LocID),
	}
}

func (s *InMemory) FindByID(_ context.Context, locID id.LocID) (*models.LegalOfficerCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if loc, ok := s.locs[locID]; ok {
		return loc.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) Exists(_ context.Context, locID id.LocID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.locs[locID]
	return ok, nil
}

// Insert stores a new LOC; an existing id is never overwritten.
func (s *InMemory) Insert(_ context.Context, locID id.LocID, loc *models.LegalOfficerCase) error {
	if loc == nil {
		return fmt.Errorf("loc is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.locs[locID]; exists {
		return fmt.Errorf("loc %s: %w", locID, sentinel.ErrDuplicateKey)
	}
	s.locs[locID] = loc.Clone()
	return nil
}

func (s *InMemory) Update(_ context.Context, locID id.LocID, loc *models.LegalOfficerCase) error {
	if loc == nil {
		return fmt.Errorf("loc is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.locs[locID]; !exists {
		return sentinel.ErrNotFound
	}
	s.locs[locID] = loc.Clone()
	return nil
}

func (s *InMemory) LinkAccount(_ context.Context, account id.AccountID, locID id.LocID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byAccount[account] = append(s.byAccount[account], locID)
	return nil
}

func (s *InMemory) LinkIdentityLoc(_ context.Context, identityLoc id.LocID, locID id.LocID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byIdentityLoc[identityLoc] = append(s.byIdentityLoc[identityLoc], locID)
	return nil
}

// ListByAccount returns LOC ids requested by account in insertion order.
func (s *InMemory) ListByAccount(_ context.Context, account id.AccountID) ([]id.LocID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]id.LocID{}, s.byAccount[account]...), nil
}

// ListByIdentityLoc returns LOC ids requested by identityLoc in insertion order.
func (s *InMemory) ListByIdentityLoc(_ context.Context, identityLoc id.LocID) ([]id.LocID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]id.LocID{}, s.byIdentityLoc[identityLoc]...), nil
}

// Count returns the number of stored LOCs.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.locs), nil
}
