package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/electrum-apis/internal/models"
)

// UnspentStore caches listunspent replies keyed by network and script hash
type UnspentStore struct {
	db *PebbleDB
}

// NewUnspentStore creates a new UnspentStore
func NewUnspentStore(db *PebbleDB) *UnspentStore {
	return &UnspentStore{db: db}
}

// Save stores an unspent output set in the cache
func (s *UnspentStore) Save(u *models.UnspentSet) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to marshal unspents: %w", err)
	}

	return s.db.Put(CFUnspents, balanceKey(u.Network, u.ScriptHash), data)
}

// Get retrieves a cached unspent set, or nil when none is cached
func (s *UnspentStore) Get(network, scripthash string) (*models.UnspentSet, error) {
	data, err := s.db.Get(CFUnspents, balanceKey(network, scripthash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var u models.UnspentSet
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unspents: %w", err)
	}
	return &u, nil
}

// DeleteAll removes every cached unspent set for a network
func (s *UnspentStore) DeleteAll(network string) error {
	return s.db.DeletePrefix(CFUnspents, networkPrefix(network))
}
