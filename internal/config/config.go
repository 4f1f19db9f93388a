package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	Pebble  PebbleConfig   `yaml:"pebble"`
	Mainnet ElectrumConfig `yaml:"mainnet"`
	Testnet ElectrumConfig `yaml:"testnet"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// PebbleConfig represents the Pebble cache database configuration
type PebbleConfig struct {
	Path string `yaml:"path"`
}

// ElectrumConfig represents the configuration for one network's Electrum
// server endpoint
type ElectrumConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	SSL           bool   `yaml:"ssl"`
	TLSSkipVerify bool   `yaml:"tls_skip_verify"`
	CacheTTL      int    `yaml:"cache_ttl"` // seconds before a cached reply goes stale
	KeepAlive     int    `yaml:"keep_alive"` // ping interval in seconds, 0 disables
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Pebble: PebbleConfig{
			Path: "./data/pebble",
		},
		Mainnet: ElectrumConfig{
			Enabled:   true,
			Host:      "localhost",
			Port:      50001,
			CacheTTL:  60,
			KeepAlive: 30,
		},
		Testnet: ElectrumConfig{
			Host:      "localhost",
			Port:      60002,
			CacheTTL:  60,
			KeepAlive: 30,
		},
	}

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	return cfg, nil
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Pebble config
	if path := os.Getenv("PEBBLE_PATH"); path != "" {
		c.Pebble.Path = path
	}

	c.loadElectrumEnv(&c.Mainnet, "MAINNET")
	c.loadElectrumEnv(&c.Testnet, "TESTNET")
}

func (c *Config) loadElectrumEnv(e *ElectrumConfig, prefix string) {
	if enabled := os.Getenv(prefix + "_ENABLED"); enabled != "" {
		e.Enabled = enabled == "true" || enabled == "1"
	}
	if host := os.Getenv(prefix + "_HOST"); host != "" {
		e.Host = host
	}
	if port := os.Getenv(prefix + "_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			e.Port = p
		}
	}
	if ssl := os.Getenv(prefix + "_SSL"); ssl != "" {
		e.SSL = ssl == "true" || ssl == "1"
	}
	if skip := os.Getenv(prefix + "_TLS_SKIP_VERIFY"); skip != "" {
		e.TLSSkipVerify = skip == "true" || skip == "1"
	}
	if ttl := os.Getenv(prefix + "_CACHE_TTL"); ttl != "" {
		if t, err := strconv.Atoi(ttl); err == nil {
			e.CacheTTL = t
		}
	}
	if ka := os.Getenv(prefix + "_KEEP_ALIVE"); ka != "" {
		if k, err := strconv.Atoi(ka); err == nil {
			e.KeepAlive = k
		}
	}
}
