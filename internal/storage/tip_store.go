package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/electrum-apis/internal/models"
)

// TipStore records the most recent block header seen per network
type TipStore struct {
	db *PebbleDB
}

// NewTipStore creates a new TipStore
func NewTipStore(db *PebbleDB) *TipStore {
	return &TipStore{db: db}
}

// Set records the tip for a network
func (s *TipStore) Set(tip *models.Tip) error {
	data, err := json.Marshal(tip)
	if err != nil {
		return fmt.Errorf("failed to marshal tip: %w", err)
	}
	return s.db.Put(CFTip, []byte(tip.Network), data)
}

// Get retrieves the recorded tip for a network, or nil when none was seen yet
func (s *TipStore) Get(network string) (*models.Tip, error) {
	data, err := s.db.Get(CFTip, []byte(network))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var tip models.Tip
	if err := json.Unmarshal(data, &tip); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tip: %w", err)
	}
	return &tip, nil
}
