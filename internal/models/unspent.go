package models

import "time"

// UnspentSet is the set of unspent outputs locked to an address
type UnspentSet struct {
	Address    string    `json:"address"`
	Network    string    `json:"network"`
	ScriptHash string    `json:"script_hash"`
	Outputs    []Unspent `json:"outputs"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Unspent is a single unspent transaction output
type Unspent struct {
	TxHash string `json:"tx_hash"`
	Pos    uint32 `json:"tx_pos"`
	Value  int64  `json:"value"` // in satoshis
	Height int64  `json:"height"`
}
