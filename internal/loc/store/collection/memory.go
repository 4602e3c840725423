package collection

import (
	"context"
	"fmt"
	"sync"

	"locreg/internal/loc/models"
	"locreg/internal/sentinel"
	id "locreg/pkg/domain"
)

type itemKey struct {
	loc  id.LocID
	item id.CollectionItemID
}

// InMemory stores collection items and per-collection counters in memory.
type InMemory struct {
	mu    sync.RWMutex
	items map[itemKey]*models.CollectionItem
	sizes map[id.LocID]uint32
}

func NewInMemory() *InMemory {
	return &InMemory{
		items: make(map[itemKey]*models.CollectionItem),
		sizes: make(map[id.LocID]uint32),
	}
}

func (s *InMemory) ItemExists(_ context.Context, locID id.LocID, itemID id.CollectionItemID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[itemKey{locID, itemID}]
	return ok, nil
}

func (s *InMemory) FindItem(_ context.Context, locID id.LocID, itemID id.CollectionItemID) (*models.CollectionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if item, ok := s.items[itemKey{locID, itemID}]; ok {
		return item.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// InsertItem stores a write-once item and increments the collection counter.
func (s *InMemory) InsertItem(_ context.Context, locID id.LocID, itemID id.CollectionItemID, item *models.CollectionItem) error {
	if item == nil {
		return fmt.Errorf("collection item is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := itemKey{locID, itemID}
	if _, exists := s.items[key]; exists {
		return fmt.Errorf("collection item %s: %w", itemID, sentinel.ErrDuplicateKey)
	}
	s.items[key] = item.Clone()
	s.sizes[locID]++
	return nil
}

// Size returns the stored counter; an unknown collection reads as 0.
func (s *InMemory) Size(_ context.Context, locID id.LocID) (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sizes[locID], nil
}
