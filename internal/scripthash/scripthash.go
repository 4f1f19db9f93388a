package scripthash

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

// Hash returns the Electrum script hash of a locking script: the SHA-256
// digest of the script bytes in reversed byte order, hex encoded. Electrum
// servers index outputs by this key; the reversal follows the protocol's
// display-order convention for hashes.
func Hash(script []byte) string {
	digest := chainhash.HashB(script)
	for i, j := 0, len(digest)-1; i < j; i, j = i+1, j-1 {
		digest[i], digest[j] = digest[j], digest[i]
	}
	return hex.EncodeToString(digest)
}

// FromAddress decodes an address against the given chain parameters and
// returns its locking script together with the Electrum script hash.
// The address must be valid for the network. No I/O is performed.
func FromAddress(address string, params *chaincfg.Params) ([]byte, string, error) {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode address %s: %w", address, err)
	}
	if !addr.IsForNet(params) {
		return nil, "", fmt.Errorf("address %s is not valid for %s", address, params.Name)
	}

	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to derive script for %s: %w", address, err)
	}
	return script, Hash(script), nil
}
