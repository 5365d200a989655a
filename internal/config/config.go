// Package config loads mintdeck settings from a YAML file, a .env file and
// the process environment. The result is resolved once at startup and passed
// down explicitly; nothing else in the program reads the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// HomeEnv overrides the state directory (~/.mintdeck).
	HomeEnv = "MINTDECK_HOME"
	// DefaultHomeDir is the state directory relative to the user's home.
	DefaultHomeDir = ".mintdeck"
)

// Config holds all mintdeck configuration.
type Config struct {
	Mode         Mode          `yaml:"mode"`
	DatabasePath string        `yaml:"database_path"`
	Network      NetworkConfig `yaml:"network"`
	Wallet       WalletConfig  `yaml:"wallet"`
	IPFS         IPFSConfig    `yaml:"ipfs"`
	Logging      LoggingConfig `yaml:"logging"`
	Trace        TraceConfig   `yaml:"trace"`
}

// NetworkConfig names the chain the wallet talks to.
type NetworkConfig struct {
	Name    string `yaml:"name"`
	ChainID int64  `yaml:"chain_id"`
}

// WalletConfig configures the account used by the context boundary.
// An empty address means a fresh address is generated on first connect.
type WalletConfig struct {
	Address     string `yaml:"address"`
	AutoConnect bool   `yaml:"auto_connect"`
}

// IPFSConfig configures how content URIs are previewed.
type IPFSConfig struct {
	Gateway string `yaml:"gateway"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error; empty follows the mode
	File  string `yaml:"file"`  // "-" for stderr
}

// TraceConfig configures OTLP trace export. Empty endpoint disables it.
type TraceConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// HomeDir returns the mintdeck state directory.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultHomeDir), nil
}

// Default returns the configuration used when no file is present.
func Default(home string) Config {
	return Config{
		Mode:         ModeProduction,
		DatabasePath: filepath.Join(home, "ledger.db"),
		Network: NetworkConfig{
			Name:    "Lisk Sepolia",
			ChainID: 4202,
		},
		Wallet: WalletConfig{
			AutoConnect: true,
		},
		IPFS: IPFSConfig{
			Gateway: "https://ipfs.io",
		},
		Logging: LoggingConfig{
			File:  filepath.Join(home, "mintdeck.log"),
		},
		Trace: TraceConfig{
			ServiceName: "mintdeck",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides are applied afterwards.
func Load(path string) (Config, error) {
	home, err := HomeDir()
	if err != nil {
		return Config{}, err
	}
	cfg := Default(home)
	if path == "" {
		path = filepath.Join(home, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment without overriding variables already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from MINTDECK_* and OTEL_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("MINTDECK_MODE"); v != "" {
		if err := c.Mode.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("MINTDECK_MODE: %w", err)
		}
	}
	if v := os.Getenv("MINTDECK_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("MINTDECK_WALLET"); v != "" {
		c.Wallet.Address = v
	}
	if v := os.Getenv("MINTDECK_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("MINTDECK_IPFS_GATEWAY"); v != "" {
		c.IPFS.Gateway = v
	}
	if v := os.Getenv("MINTDECK_CHAIN_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MINTDECK_CHAIN_ID: %w", err)
		}
		c.Network.ChainID = id
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Trace.Endpoint = v
	}
	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		c.Trace.ServiceName = v
	}
	return nil
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if c.Mode != ModeProduction && c.Mode != ModeDevelopment {
		return fmt.Errorf("invalid mode %d", c.Mode)
	}
	if c.DatabasePath == "" {
		return errors.New("database_path must be set")
	}
	if c.Network.ChainID <= 0 {
		return fmt.Errorf("network.chain_id must be positive, got %d", c.Network.ChainID)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	return nil
}
