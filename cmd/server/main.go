package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/thanhnp/electrum-apis/internal/api"
	"github.com/thanhnp/electrum-apis/internal/config"
	"github.com/thanhnp/electrum-apis/internal/electrum"
	"github.com/thanhnp/electrum-apis/internal/netparams"
	"github.com/thanhnp/electrum-apis/internal/query"
	"github.com/thanhnp/electrum-apis/internal/storage"
	"github.com/thanhnp/electrum-apis/internal/watch"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Starting Electrum APIs server...")

	registry := storage.NewRegistry()
	services := make(map[string]query.AddressQuerier)
	var watchers []*watch.Watcher
	var clients []electrum.Client

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	networks := []struct {
		network netparams.Network
		cfg     *config.ElectrumConfig
	}{
		{netparams.Mainnet, &cfg.Mainnet},
		{netparams.Testnet, &cfg.Testnet},
	}

	for _, n := range networks {
		if !n.cfg.Enabled {
			continue
		}
		name := n.network.String()
		log.Printf("Initializing %s...", name)

		// Separate cache database per network
		dbPath := cfg.Pebble.Path + "/" + name
		log.Printf("Opening %s Pebble database at %s", name, dbPath)
		db, err := storage.NewPebbleDB(dbPath)
		if err != nil {
			log.Fatalf("Failed to open %s Pebble database: %v", name, err)
		}
		stores := storage.NewNetworkStores(db)
		registry.Register(name, stores)

		client, err := electrum.Connect(ctx, electrum.Options{
			Host:          n.cfg.Host,
			Port:          n.cfg.Port,
			SSL:           n.cfg.SSL,
			TLSSkipVerify: n.cfg.TLSSkipVerify,
			KeepAlive:     time.Duration(n.cfg.KeepAlive) * time.Second,
		})
		if err != nil {
			log.Fatalf("Failed to connect to %s electrum server: %v", name, err)
		}
		clients = append(clients, client)

		services[name] = query.NewService(
			n.network, client, stores,
			time.Duration(n.cfg.CacheTTL)*time.Second,
		)

		watcher := watch.NewWatcher(n.network, client, stores)
		if err := watcher.Start(ctx); err != nil {
			log.Printf("Warning: Failed to start %s header watcher: %v", name, err)
		} else {
			watchers = append(watchers, watcher)
			log.Printf("%s header watcher started", name)
		}
	}

	if len(services) == 0 {
		log.Fatalf("No network enabled in configuration")
	}

	// Initialize API router
	router := api.NewRouter(services)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Cancel context to stop keepalive loops and subscriptions
	cancel()

	// Stop all watchers
	for _, w := range watchers {
		if err := w.Stop(); err != nil {
			log.Printf("Error stopping watcher: %v", err)
		}
	}

	// Shut down electrum connections
	for _, c := range clients {
		c.Shutdown()
	}

	// Close all cache databases
	if err := registry.Close(); err != nil {
		log.Printf("Error closing cache database: %v", err)
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
