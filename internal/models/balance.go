package models

import "time"

// Balance is the result of a blockchain.scripthash.get_balance lookup for an
// address, together with the derivation that produced the lookup key
type Balance struct {
	Address     string    `json:"address"`
	Network     string    `json:"network"`
	Script      string    `json:"script"`      // locking script, hex
	ScriptHash  string    `json:"script_hash"` // reversed sha256 of the script, hex
	Confirmed   int64     `json:"confirmed"`   // in satoshis
	Unconfirmed int64     `json:"unconfirmed"` // in satoshis
	TipHeight   int64     `json:"tip_height"`  // chain tip when fetched, 0 if unknown
	FetchedAt   time.Time `json:"fetched_at"`
}
