// Package config loads and persists the daemon configuration. The file
// lives under the user config directory as JSON; individual values can be
// overridden through PLANTD_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/plantd/plantd/common"
	"github.com/spf13/afero"
)

const (
	// FileName is the config file name inside the config directory.
	FileName = "config.json"

	// DefaultRPCPort is the port the websocket RPC bridge listens on.
	DefaultRPCPort = 4427

	defaultPollSeconds = 10
)

// Config is the daemon configuration.
type Config struct {
	// StoreURL is the base URL of the remote plant store.
	StoreURL string `json:"store_url"`
	// APIKey is the public api key sent with every store request.
	APIKey string `json:"api_key"`
	// PollIntervalSeconds is the live poller period.
	PollIntervalSeconds int `json:"poll_interval_seconds"`
	// AlertsEnabled turns desktop alerts on.
	AlertsEnabled bool `json:"alerts_enabled"`
	// RPCPort is the port for the websocket RPC bridge. 0 disables it.
	RPCPort int `json:"rpc_port"`
	// RPCSecret, when set, is required as a bearer token on RPC connects.
	RPCSecret string `json:"rpc_secret,omitempty"`
	// DataDir holds the alert ledger database. Defaults to the config dir.
	DataDir string `json:"data_dir,omitempty"`
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	return &Config{
		PollIntervalSeconds: defaultPollSeconds,
		AlertsEnabled:       true,
		RPCPort:             DefaultRPCPort,
	}
}

// PollInterval returns the poller period as a duration.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds <= 0 {
		return time.Duration(defaultPollSeconds) * time.Second
	}
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Dir returns the config directory, honoring PLANTD_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv(common.ConfigDirEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("error: failed to locate config directory: %w", err)
	}
	return filepath.Join(base, "plantd"), nil
}

// Load reads the config from dir on fs, falling back to defaults when the
// file does not exist, then applies environment overrides.
func Load(fs afero.Fs, dir string) (*Config, error) {
	cfg := Default()
	data, err := afero.ReadFile(fs, filepath.Join(dir, FileName))
	switch {
	case os.IsNotExist(err):
		// First run.
	case err != nil:
		return nil, fmt.Errorf("error: failed to read config: %w", err)
	default:
		if err = json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error: failed to parse config: %w", err)
		}
	}
	applyEnv(cfg)
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

// Save writes the config to dir on fs, creating the directory if needed.
func Save(fs afero.Fs, dir string, cfg *Config) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error: failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("error: failed to encode config: %w", err)
	}
	if err = afero.WriteFile(fs, filepath.Join(dir, FileName), data, 0o600); err != nil {
		return fmt.Errorf("error: failed to write config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(common.StoreURLEnv); v != "" {
		cfg.StoreURL = v
	}
	if v := os.Getenv(common.APIKeyEnv); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv(common.PollIntervalEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollIntervalSeconds = n
		}
	}
	if v := os.Getenv(common.RPCPortEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RPCPort = n
		}
	}
	if v := os.Getenv(common.RPCSecretEnv); v != "" {
		cfg.RPCSecret = v
	}
	if v := os.Getenv(common.AlertsEnv); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AlertsEnabled = b
		}
	}
}
