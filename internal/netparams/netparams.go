package netparams

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network selects which address parsing rules apply and which Electrum
// server port is dialed by default. It is chosen once per process.
type Network int

const (
	Mainnet Network = iota
	Testnet
)

// Default Electrum server TCP ports per network
const (
	MainnetPort = 50001
	TestnetPort = 60002
)

// Parse maps a network name to a Network
func Parse(name string) (Network, error) {
	switch name {
	case "mainnet":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	}
	return 0, fmt.Errorf("unknown network: %s", name)
}

// FromTestnetFlag maps the CLI --testnet flag to a Network
func FromTestnetFlag(testnet bool) Network {
	if testnet {
		return Testnet
	}
	return Mainnet
}

// String returns the network name
func (n Network) String() string {
	if n == Testnet {
		return "testnet"
	}
	return "mainnet"
}

// Params returns the chain parameters used for address parsing
func (n Network) Params() *chaincfg.Params {
	if n == Testnet {
		return &chaincfg.TestNet3Params
	}
	return &chaincfg.MainNetParams
}

// DefaultPort returns the default Electrum server TCP port
func (n Network) DefaultPort() int {
	if n == Testnet {
		return TestnetPort
	}
	return MainnetPort
}
