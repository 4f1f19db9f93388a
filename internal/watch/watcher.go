package watch

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	checksum0 "github.com/checksum0/go-electrum/electrum"
	log "github.com/sirupsen/logrus"

	"github.com/thanhnp/electrum-apis/internal/electrum"
	"github.com/thanhnp/electrum-apis/internal/models"
	"github.com/thanhnp/electrum-apis/internal/netparams"
	"github.com/thanhnp/electrum-apis/internal/storage"
)

// Watcher follows blockchain.headers.subscribe for one network. Each new
// header moves the recorded tip and drops the network's cached replies,
// since any of them may have changed with the block.
type Watcher struct {
	network netparams.Network
	client  electrum.Client
	stores  *storage.NetworkStores

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWatcher creates a Watcher for one network
func NewWatcher(network netparams.Network, client electrum.Client, stores *storage.NetworkStores) *Watcher {
	return &Watcher{
		network: network,
		client:  client,
		stores:  stores,
	}
}

// Start subscribes to header notifications and begins processing them
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.running = true
	w.mu.Unlock()

	headers, err := w.client.SubscribeHeaders(ctx)
	if err != nil {
		w.mu.Lock()
		w.cancel()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("header subscription failed: %w", err)
	}

	w.wg.Add(1)
	go w.loop(ctx, headers)
	return nil
}

// Stop cancels the subscription and waits for the processing loop to drain
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

func (w *Watcher) loop(ctx context.Context, headers <-chan *checksum0.SubscribeHeadersResult) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case header, ok := <-headers:
			if !ok {
				log.Printf("Header subscription for %s closed", w.network)
				return
			}
			w.handleHeader(header)
		}
	}
}

func (w *Watcher) handleHeader(header *checksum0.SubscribeHeadersResult) {
	tip := &models.Tip{
		Network: w.network.String(),
		Height:  int64(header.Height),
		Seen:    time.Now(),
	}
	if raw, err := hex.DecodeString(header.Hex); err == nil {
		tip.Hash = chainhash.DoubleHashH(raw).String()
	}

	if err := w.stores.TipStore.Set(tip); err != nil {
		log.Printf("Failed to record tip for %s: %v", w.network, err)
	}
	log.Printf("New %s block at height %d (%s)", w.network, tip.Height, tip.Hash)

	// A new block can change any cached reply for this network
	network := w.network.String()
	if err := w.stores.BalanceStore.DeleteAll(network); err != nil {
		log.Printf("Failed to drop cached balances for %s: %v", network, err)
	}
	if err := w.stores.HistoryStore.DeleteAll(network); err != nil {
		log.Printf("Failed to drop cached histories for %s: %v", network, err)
	}
	if err := w.stores.UnspentStore.DeleteAll(network); err != nil {
		log.Printf("Failed to drop cached unspents for %s: %v", network, err)
	}
}
