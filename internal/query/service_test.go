package query

import (
	"context"
	"errors"
	"testing"
	"time"

	goelectrum "github.com/checksum0/go-electrum/electrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/electrum-apis/internal/models"
	"github.com/thanhnp/electrum-apis/internal/netparams"
	"github.com/thanhnp/electrum-apis/internal/storage"
)

const (
	genesisAddr       = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	genesisScript     = "76a91462e907b15cbf27d5425399ebf6f0fb50ebb88f1888ac"
	genesisScriptHash = "8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161"
)

type fakeClient struct {
	balance      goelectrum.GetBalanceResult
	balanceErr   error
	balanceCalls int

	history      []*goelectrum.GetMempoolResult
	historyCalls int

	unspents     []*goelectrum.ListUnspentResult
	unspentCalls int

	lastScriptHash string
}

func (f *fakeClient) GetBalance(_ context.Context, scripthash string) (goelectrum.GetBalanceResult, error) {
	f.balanceCalls++
	f.lastScriptHash = scripthash
	return f.balance, f.balanceErr
}

func (f *fakeClient) GetHistory(_ context.Context, scripthash string) ([]*goelectrum.GetMempoolResult, error) {
	f.historyCalls++
	f.lastScriptHash = scripthash
	return f.history, nil
}

func (f *fakeClient) ListUnspent(_ context.Context, scripthash string) ([]*goelectrum.ListUnspentResult, error) {
	f.unspentCalls++
	f.lastScriptHash = scripthash
	return f.unspents, nil
}

func (f *fakeClient) SubscribeHeaders(context.Context) (<-chan *goelectrum.SubscribeHeadersResult, error) {
	return nil, errors.New("not supported")
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) Shutdown() {}

func newTestService(t *testing.T, client *fakeClient, ttl time.Duration) *Service {
	t.Helper()
	db, err := storage.NewPebbleDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(netparams.Mainnet, client, storage.NewNetworkStores(db), ttl)
}

func TestBalanceMissThenHit(t *testing.T) {
	client := &fakeClient{
		balance: goelectrum.GetBalanceResult{Confirmed: 5000000000, Unconfirmed: 1200},
	}
	svc := newTestService(t, client, time.Minute)

	b, err := svc.Balance(context.Background(), genesisAddr)
	require.NoError(t, err)
	assert.Equal(t, genesisAddr, b.Address)
	assert.Equal(t, "mainnet", b.Network)
	assert.Equal(t, genesisScript, b.Script)
	assert.Equal(t, genesisScriptHash, b.ScriptHash)
	assert.Equal(t, int64(5000000000), b.Confirmed)
	assert.Equal(t, int64(1200), b.Unconfirmed)
	assert.Equal(t, genesisScriptHash, client.lastScriptHash)
	assert.Equal(t, 1, client.balanceCalls)

	// second lookup within the TTL is served from cache
	b2, err := svc.Balance(context.Background(), genesisAddr)
	require.NoError(t, err)
	assert.Equal(t, b.Confirmed, b2.Confirmed)
	assert.Equal(t, 1, client.balanceCalls)
}

func TestBalanceStaleRefetch(t *testing.T) {
	client := &fakeClient{
		balance: goelectrum.GetBalanceResult{Confirmed: 100},
	}
	svc := newTestService(t, client, time.Minute)

	_, err := svc.Balance(context.Background(), genesisAddr)
	require.NoError(t, err)
	require.Equal(t, 1, client.balanceCalls)

	// move the clock past the TTL
	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	client.balance.Confirmed = 250

	b, err := svc.Balance(context.Background(), genesisAddr)
	require.NoError(t, err)
	assert.Equal(t, 2, client.balanceCalls)
	assert.Equal(t, int64(250), b.Confirmed)
}

func TestBalanceZeroTTLBypassesCache(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(t, client, 0)

	_, err := svc.Balance(context.Background(), genesisAddr)
	require.NoError(t, err)
	_, err = svc.Balance(context.Background(), genesisAddr)
	require.NoError(t, err)
	assert.Equal(t, 2, client.balanceCalls)
}

func TestBalanceInvalidAddress(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(t, client, time.Minute)

	// decode failure must precede any server call
	_, err := svc.Balance(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Equal(t, 0, client.balanceCalls)

	// testnet address rejected on mainnet service
	_, err = svc.Balance(context.Background(), "mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn")
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Equal(t, 0, client.balanceCalls)
}

func TestBalanceUpstreamError(t *testing.T) {
	client := &fakeClient{balanceErr: errors.New("connection reset")}
	svc := newTestService(t, client, time.Minute)

	_, err := svc.Balance(context.Background(), genesisAddr)
	assert.ErrorIs(t, err, ErrUpstream)

	// a failed fetch leaves nothing cached
	cached, err := svc.stores.BalanceStore.Get("mainnet", genesisScriptHash)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestHistory(t *testing.T) {
	client := &fakeClient{
		history: []*goelectrum.GetMempoolResult{
			{Hash: "aa11", Height: 100},
			{Hash: "bb22", Height: 0, Fee: 150},
		},
	}
	svc := newTestService(t, client, time.Minute)

	h, err := svc.History(context.Background(), genesisAddr)
	require.NoError(t, err)
	assert.Equal(t, genesisScriptHash, h.ScriptHash)
	require.Len(t, h.Items, 2)
	assert.Equal(t, models.HistoryItem{TxHash: "aa11", Height: 100}, h.Items[0])
	assert.Equal(t, models.HistoryItem{TxHash: "bb22", Height: 0, Fee: 150}, h.Items[1])

	_, err = svc.History(context.Background(), genesisAddr)
	require.NoError(t, err)
	assert.Equal(t, 1, client.historyCalls)
}

func TestUnspents(t *testing.T) {
	client := &fakeClient{
		unspents: []*goelectrum.ListUnspentResult{
			{Hash: "dd44", Position: 1, Value: 2500, Height: 500000},
		},
	}
	svc := newTestService(t, client, time.Minute)

	u, err := svc.Unspents(context.Background(), genesisAddr)
	require.NoError(t, err)
	require.Len(t, u.Outputs, 1)
	assert.Equal(t, "dd44", u.Outputs[0].TxHash)
	assert.Equal(t, uint32(1), u.Outputs[0].Pos)
	assert.Equal(t, int64(2500), u.Outputs[0].Value)
	assert.Equal(t, int64(500000), u.Outputs[0].Height)
}

func TestScriptHashNoRPC(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(t, client, time.Minute)

	script, hash, err := svc.ScriptHash(genesisAddr)
	require.NoError(t, err)
	assert.Equal(t, genesisScript, script)
	assert.Equal(t, genesisScriptHash, hash)
	assert.Equal(t, 0, client.balanceCalls)
}

func TestTipEmpty(t *testing.T) {
	svc := newTestService(t, &fakeClient{}, time.Minute)

	tip, err := svc.Tip()
	require.NoError(t, err)
	assert.Nil(t, tip)
}
