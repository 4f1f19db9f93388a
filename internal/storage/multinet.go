package storage

import "fmt"

// NetworkStores holds all stores for a single network
type NetworkStores struct {
	DB           *PebbleDB
	BalanceStore *BalanceStore
	HistoryStore *HistoryStore
	UnspentStore *UnspentStore
	TipStore     *TipStore
}

// NewNetworkStores creates all stores for a network using the given database
func NewNetworkStores(db *PebbleDB) *NetworkStores {
	return &NetworkStores{
		DB:           db,
		BalanceStore: NewBalanceStore(db),
		HistoryStore: NewHistoryStore(db),
		UnspentStore: NewUnspentStore(db),
		TipStore:     NewTipStore(db),
	}
}

// Close closes the database
func (ns *NetworkStores) Close() error {
	return ns.DB.Close()
}

// Registry maps network names to their store bundles
type Registry struct {
	stores map[string]*NetworkStores
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*NetworkStores),
	}
}

// Register registers the stores for a network
func (r *Registry) Register(network string, stores *NetworkStores) {
	r.stores[network] = stores
}

// Get returns the stores for the given network
func (r *Registry) Get(network string) (*NetworkStores, error) {
	stores, ok := r.stores[network]
	if !ok {
		return nil, fmt.Errorf("network not registered: %s", network)
	}
	return stores, nil
}

// Networks returns the registered network names
func (r *Registry) Networks() []string {
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	return names
}

// Close closes every registered database
func (r *Registry) Close() error {
	var firstErr error
	for _, ns := range r.stores {
		if err := ns.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
