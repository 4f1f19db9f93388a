package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/thanhnp/electrum-apis/internal/electrum"
	"github.com/thanhnp/electrum-apis/internal/netparams"
	"github.com/thanhnp/electrum-apis/internal/scripthash"
)

func main() {
	testnet := flag.Bool("testnet", false, "Use testnet address rules and port")
	server := flag.String("server", "localhost", "Electrum server host")
	port := flag.Int("port", 0, "Electrum server port (default 50001 mainnet, 60002 testnet)")
	flag.Parse()

	addresses := flag.Args()
	if len(addresses) == 0 {
		fmt.Fprintln(os.Stderr, "usage: balance [--testnet] [--server host] [--port port] address [address...]")
		os.Exit(2)
	}

	network := netparams.FromTestnetFlag(*testnet)
	if *port == 0 {
		*port = network.DefaultPort()
	}

	ctx := context.Background()
	conn, err := electrum.Connect(ctx, electrum.Options{Host: *server, Port: *port})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	err = run(ctx, conn, network, addresses, os.Stdout)
	conn.Shutdown()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// run processes each address in argument order: decode, hash, query, print.
// The first failure aborts the remaining batch.
func run(ctx context.Context, conn electrum.Client, network netparams.Network, addresses []string, out io.Writer) error {
	params := network.Params()
	for _, addr := range addresses {
		script, hash, err := scripthash.FromAddress(addr, params)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Address %s has script %x\n", addr, script)

		balance, err := conn.GetBalance(ctx, hash)
		if err != nil {
			return fmt.Errorf("failed to get balance for %s: %w", addr, err)
		}
		fmt.Fprintf(out, "%s has %d satoshis\n", addr, int64(balance.Confirmed))
	}
	return nil
}
