package query

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/thanhnp/electrum-apis/internal/electrum"
	"github.com/thanhnp/electrum-apis/internal/models"
	"github.com/thanhnp/electrum-apis/internal/netparams"
	"github.com/thanhnp/electrum-apis/internal/scripthash"
	"github.com/thanhnp/electrum-apis/internal/storage"
)

// ErrInvalidAddress marks failures to decode an address for the service's
// network. Handlers map it to a client error.
var ErrInvalidAddress = errors.New("invalid address")

// ErrUpstream marks failures of the Electrum server behind the service.
// Handlers map it to a bad gateway.
var ErrUpstream = errors.New("electrum server error")

// AddressQuerier answers address lookups for one network
type AddressQuerier interface {
	Balance(ctx context.Context, address string) (*models.Balance, error)
	History(ctx context.Context, address string) (*models.History, error)
	Unspents(ctx context.Context, address string) (*models.UnspentSet, error)
	ScriptHash(address string) (string, string, error)
	Tip() (*models.Tip, error)
}

// Service resolves address queries against the Electrum server, caching
// replies in the network's stores until they go stale or a new block arrives
type Service struct {
	network  netparams.Network
	client   electrum.Client
	stores   *storage.NetworkStores
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService creates a Service for one network
func NewService(network netparams.Network, client electrum.Client, stores *storage.NetworkStores, cacheTTL time.Duration) *Service {
	return &Service{
		network:  network,
		client:   client,
		stores:   stores,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// fresh reports whether a cache entry fetched at t is still usable
func (s *Service) fresh(t time.Time) bool {
	return s.cacheTTL > 0 && s.now().Sub(t) < s.cacheTTL
}

// resolve decodes an address into its script and script hash
func (s *Service) resolve(address string) ([]byte, string, error) {
	script, hash, err := scripthash.FromAddress(address, s.network.Params())
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return script, hash, nil
}

// ScriptHash returns the locking script (hex) and Electrum script hash for
// an address without contacting the server
func (s *Service) ScriptHash(address string) (string, string, error) {
	script, hash, err := s.resolve(address)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(script), hash, nil
}

// Balance returns the balance of an address, from cache when fresh
func (s *Service) Balance(ctx context.Context, address string) (*models.Balance, error) {
	script, hash, err := s.resolve(address)
	if err != nil {
		return nil, err
	}

	cached, err := s.stores.BalanceStore.Get(s.network.String(), hash)
	if err != nil {
		return nil, err
	}
	if cached != nil && s.fresh(cached.FetchedAt) {
		return cached, nil
	}

	res, err := s.client.GetBalance(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: get_balance: %v", ErrUpstream, err)
	}

	b := &models.Balance{
		Address:     address,
		Network:     s.network.String(),
		Script:      hex.EncodeToString(script),
		ScriptHash:  hash,
		Confirmed:   int64(res.Confirmed),
		Unconfirmed: int64(res.Unconfirmed),
		TipHeight:   s.tipHeight(),
		FetchedAt:   s.now(),
	}

	if err := s.stores.BalanceStore.Save(b); err != nil {
		log.Printf("Failed to cache balance for %s: %v", address, err)
	}
	return b, nil
}

// History returns the transaction history of an address, from cache when fresh
func (s *Service) History(ctx context.Context, address string) (*models.History, error) {
	_, hash, err := s.resolve(address)
	if err != nil {
		return nil, err
	}

	cached, err := s.stores.HistoryStore.Get(s.network.String(), hash)
	if err != nil {
		return nil, err
	}
	if cached != nil && s.fresh(cached.FetchedAt) {
		return cached, nil
	}

	res, err := s.client.GetHistory(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: get_history: %v", ErrUpstream, err)
	}

	h := &models.History{
		Address:    address,
		Network:    s.network.String(),
		ScriptHash: hash,
		Items:      make([]models.HistoryItem, 0, len(res)),
		FetchedAt:  s.now(),
	}
	for _, item := range res {
		h.Items = append(h.Items, models.HistoryItem{
			TxHash: item.Hash,
			Height: int64(item.Height),
			Fee:    int64(item.Fee),
		})
	}

	if err := s.stores.HistoryStore.Save(h); err != nil {
		log.Printf("Failed to cache history for %s: %v", address, err)
	}
	return h, nil
}

// Unspents returns the unspent outputs of an address, from cache when fresh
func (s *Service) Unspents(ctx context.Context, address string) (*models.UnspentSet, error) {
	_, hash, err := s.resolve(address)
	if err != nil {
		return nil, err
	}

	cached, err := s.stores.UnspentStore.Get(s.network.String(), hash)
	if err != nil {
		return nil, err
	}
	if cached != nil && s.fresh(cached.FetchedAt) {
		return cached, nil
	}

	res, err := s.client.ListUnspent(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: listunspent: %v", ErrUpstream, err)
	}

	u := &models.UnspentSet{
		Address:    address,
		Network:    s.network.String(),
		ScriptHash: hash,
		Outputs:    make([]models.Unspent, 0, len(res)),
		FetchedAt:  s.now(),
	}
	for _, out := range res {
		u.Outputs = append(u.Outputs, models.Unspent{
			TxHash: out.Hash,
			Pos:    out.Position,
			Value:  int64(out.Value),
			Height: int64(out.Height),
		})
	}

	if err := s.stores.UnspentStore.Save(u); err != nil {
		log.Printf("Failed to cache unspents for %s: %v", address, err)
	}
	return u, nil
}

// Tip returns the most recent block header seen for the network
func (s *Service) Tip() (*models.Tip, error) {
	return s.stores.TipStore.Get(s.network.String())
}

func (s *Service) tipHeight() int64 {
	tip, err := s.stores.TipStore.Get(s.network.String())
	if err != nil || tip == nil {
		return 0
	}
	return tip.Height
}
