package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/electrum-apis/internal/models"
)

// BalanceStore caches balance replies keyed by network and script hash
type BalanceStore struct {
	db *PebbleDB
}

// NewBalanceStore creates a new BalanceStore
func NewBalanceStore(db *PebbleDB) *BalanceStore {
	return &BalanceStore{db: db}
}

// balanceKey creates a key for the balances column family
func balanceKey(network, scripthash string) []byte {
	return []byte(fmt.Sprintf("%s:%s", network, scripthash))
}

// networkPrefix creates a prefix covering all entries of a network
func networkPrefix(network string) []byte {
	return []byte(network + ":")
}

// Save stores a balance in the cache
func (s *BalanceStore) Save(b *models.Balance) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal balance: %w", err)
	}

	return s.db.Put(CFBalances, balanceKey(b.Network, b.ScriptHash), data)
}

// Get retrieves a cached balance, or nil when none is cached
func (s *BalanceStore) Get(network, scripthash string) (*models.Balance, error) {
	data, err := s.db.Get(CFBalances, balanceKey(network, scripthash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var b models.Balance
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balance: %w", err)
	}
	return &b, nil
}

// Delete removes a cached balance
func (s *BalanceStore) Delete(network, scripthash string) error {
	return s.db.Delete(CFBalances, balanceKey(network, scripthash))
}

// DeleteAll removes every cached balance for a network
func (s *BalanceStore) DeleteAll(network string) error {
	return s.db.DeletePrefix(CFBalances, networkPrefix(network))
}
