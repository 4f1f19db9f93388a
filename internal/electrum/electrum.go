package electrum

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/checksum0/go-electrum/electrum"
	log "github.com/sirupsen/logrus"

	"github.com/thanhnp/electrum-apis/pkg/protover"
)

// MinProtocolVersion is the lowest Electrum protocol version this client
// speaks. Servers advertising an older protocol are rejected at connect time.
var MinProtocolVersion = protover.Version{Major: 1, Minor: 4}

// pingTimeout bounds a single keepalive round trip
const pingTimeout = 10 * time.Second

// Client is the subset of the Electrum protocol used by the CLI and the
// API daemon. The real connection satisfies it; tests substitute a fake.
type Client interface {
	GetBalance(ctx context.Context, scripthash string) (electrum.GetBalanceResult, error)
	GetHistory(ctx context.Context, scripthash string) ([]*electrum.GetMempoolResult, error)
	ListUnspent(ctx context.Context, scripthash string) ([]*electrum.ListUnspentResult, error)
	SubscribeHeaders(ctx context.Context) (<-chan *electrum.SubscribeHeadersResult, error)
	Ping(ctx context.Context) error
	Shutdown()
}

// Options configures a server connection
type Options struct {
	Host          string
	Port          int
	SSL           bool
	TLSSkipVerify bool
	// KeepAlive is the ping interval keeping long-lived connections open
	// past the server's idle timeout. Zero disables the keepalive loop.
	KeepAlive time.Duration
}

// Connect dials an Electrum server, negotiates the server version and checks
// that the advertised protocol version is compatible. The connection lives
// until Shutdown is called or ctx is cancelled; there is no automatic retry.
func Connect(ctx context.Context, opts Options) (Client, error) {
	addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)

	var client *electrum.Client
	var err error
	if opts.SSL {
		client, err = electrum.NewClientSSL(ctx, addr, &tls.Config{
			InsecureSkipVerify: opts.TLSSkipVerify,
		})
	} else {
		client, err = electrum.NewClientTCP(ctx, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to electrum server %s: %w", addr, err)
	}

	software, protocol, err := client.ServerVersion(ctx)
	if err != nil {
		client.Shutdown()
		return nil, fmt.Errorf("unable to get server version from %s: %w", addr, err)
	}

	proto, err := checkProtocol(protocol)
	if err != nil {
		client.Shutdown()
		return nil, fmt.Errorf("electrum server %s: %w", addr, err)
	}
	log.Printf("Connected to electrum server %s (%s, protocol %s)", addr, software, proto)

	if opts.KeepAlive > 0 {
		go keepAlive(ctx, client, addr, opts.KeepAlive)
	}

	return client, nil
}

// checkProtocol parses an advertised protocol version and verifies it is
// compatible with MinProtocolVersion
func checkProtocol(advertised string) (protover.Version, error) {
	proto, err := protover.Parse(advertised)
	if err != nil {
		return protover.Version{}, fmt.Errorf("unable to parse advertised protocol version: %w", err)
	}
	if !proto.AtLeast(MinProtocolVersion) {
		return protover.Version{}, fmt.Errorf("server advertises protocol %s but %s or later is required",
			proto, MinProtocolVersion)
	}
	return proto, nil
}

func keepAlive(ctx context.Context, client *electrum.Client, addr string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
			if err := client.Ping(pingCtx); err != nil {
				log.Printf("Ping to electrum server %s failed: %v", addr, err)
			}
			cancel()
		}
	}
}
