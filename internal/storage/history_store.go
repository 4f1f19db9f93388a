package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/electrum-apis/internal/models"
)

// HistoryStore caches history replies keyed by network and script hash
type HistoryStore struct {
	db *PebbleDB
}

// NewHistoryStore creates a new HistoryStore
func NewHistoryStore(db *PebbleDB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Save stores an address history in the cache
func (s *HistoryStore) Save(h *models.History) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	return s.db.Put(CFHistory, balanceKey(h.Network, h.ScriptHash), data)
}

// Get retrieves a cached history, or nil when none is cached
func (s *HistoryStore) Get(network, scripthash string) (*models.History, error) {
	data, err := s.db.Get(CFHistory, balanceKey(network, scripthash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var h models.History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return &h, nil
}

// DeleteAll removes every cached history for a network
func (s *HistoryStore) DeleteAll(network string) error {
	return s.db.DeletePrefix(CFHistory, networkPrefix(network))
}
