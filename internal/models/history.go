package models

import "time"

// History is the transaction history of an address, confirmed and mempool
type History struct {
	Address    string        `json:"address"`
	Network    string        `json:"network"`
	ScriptHash string        `json:"script_hash"`
	Items      []HistoryItem `json:"items"`
	FetchedAt  time.Time     `json:"fetched_at"`
}

// HistoryItem is a single transaction touching the address. Height 0 means
// the transaction is in the mempool; -1 means it is in the mempool with at
// least one unconfirmed parent.
type HistoryItem struct {
	TxHash string `json:"tx_hash"`
	Height int64  `json:"height"`
	Fee    int64  `json:"fee"` // in satoshis, mempool entries only
}
