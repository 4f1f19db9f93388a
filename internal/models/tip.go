package models

import "time"

// Tip is the most recent block header seen for a network
type Tip struct {
	Network string    `json:"network"`
	Height  int64     `json:"height"`
	Hash    string    `json:"hash"`
	Seen    time.Time `json:"seen"`
}
