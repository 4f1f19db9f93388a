package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	goelectrum "github.com/checksum0/go-electrum/electrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/electrum-apis/internal/netparams"
)

type fakeConn struct {
	balances map[string]float64 // scripthash -> confirmed satoshis
	err      error
	calls    []string
}

func (f *fakeConn) GetBalance(_ context.Context, scripthash string) (goelectrum.GetBalanceResult, error) {
	f.calls = append(f.calls, scripthash)
	if f.err != nil {
		return goelectrum.GetBalanceResult{}, f.err
	}
	return goelectrum.GetBalanceResult{Confirmed: f.balances[scripthash]}, nil
}

func (f *fakeConn) GetHistory(context.Context, string) ([]*goelectrum.GetMempoolResult, error) {
	return nil, nil
}

func (f *fakeConn) ListUnspent(context.Context, string) ([]*goelectrum.ListUnspentResult, error) {
	return nil, nil
}

func (f *fakeConn) SubscribeHeaders(context.Context) (<-chan *goelectrum.SubscribeHeadersResult, error) {
	return nil, errors.New("not supported")
}

func (f *fakeConn) Ping(context.Context) error { return nil }

func (f *fakeConn) Shutdown() {}

func TestRunPrintsTwoLinesPerAddress(t *testing.T) {
	conn := &fakeConn{balances: map[string]float64{
		"8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161": 5000000000,
		"eafd9bc024177ba93572c1cc3a83f555dadbb81ca94cd9761ef5211ce794cea9": 0,
	}}

	var out bytes.Buffer
	err := run(context.Background(), conn, netparams.Mainnet, []string{
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
	}, &out)
	require.NoError(t, err)

	want := "Address 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa has script 76a91462e907b15cbf27d5425399ebf6f0fb50ebb88f1888ac\n" +
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa has 5000000000 satoshis\n" +
		"Address 1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2 has script 76a91477bff20c60e522dfaa3350c39b030a5d004e839a88ac\n" +
		"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2 has 0 satoshis\n"
	assert.Equal(t, want, out.String())

	// one call per address, in argument order
	assert.Equal(t, []string{
		"8b01df4e368ea28f8dc0423bcf7a4923e3a12d307c875e47a0cfbf90b5c39161",
		"eafd9bc024177ba93572c1cc3a83f555dadbb81ca94cd9761ef5211ce794cea9",
	}, conn.calls)
}

func TestRunInvalidAddressAbortsBeforeRPC(t *testing.T) {
	conn := &fakeConn{balances: map[string]float64{}}

	var out bytes.Buffer
	err := run(context.Background(), conn, netparams.Mainnet, []string{"bogus"}, &out)
	assert.Error(t, err)
	assert.Empty(t, conn.calls)
	assert.Empty(t, out.String())
}

func TestRunFirstFailureAbortsBatch(t *testing.T) {
	conn := &fakeConn{balances: map[string]float64{}}

	var out bytes.Buffer
	err := run(context.Background(), conn, netparams.Mainnet, []string{
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
		"bogus",
		"1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2",
	}, &out)
	assert.Error(t, err)

	// output for the first address stands, the rest of the batch is skipped
	assert.Equal(t, 1, len(conn.calls))
	assert.Contains(t, out.String(), "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa has 0 satoshis\n")
	assert.NotContains(t, out.String(), "1BvBMSEYstWetqTFn5Au4m4GFg7xJaNVN2")
}

func TestRunRPCFailureIsFatal(t *testing.T) {
	conn := &fakeConn{err: errors.New("connection reset")}

	var out bytes.Buffer
	err := run(context.Background(), conn, netparams.Mainnet,
		[]string{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}, &out)
	assert.Error(t, err)

	// the script line is printed before the call, the satoshi line is not
	assert.Contains(t, out.String(), "Address 1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa has script")
	assert.NotContains(t, out.String(), "satoshis")
}

func TestRunTestnetRules(t *testing.T) {
	conn := &fakeConn{balances: map[string]float64{
		"7bd6809f7b634c856912c8de25f39daf3b6f5692050d2160046ab4ddd5861aab": 42,
	}}

	var out bytes.Buffer
	err := run(context.Background(), conn, netparams.Testnet,
		[]string{"mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "mipcBbFg9gMiCh81Kj8tqqdgoZub1ZJRfn has 42 satoshis\n")

	// mainnet addresses are rejected under testnet rules
	out.Reset()
	conn.calls = nil
	err = run(context.Background(), conn, netparams.Testnet,
		[]string{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}, &out)
	assert.Error(t, err)
	assert.Empty(t, conn.calls)
}
