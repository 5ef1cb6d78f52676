package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

const (
	defaultProvider = ProviderKeystore
	defaultRPCURL   = "http://127.0.0.1:8545"
	defaultPollMS   = 1000

	configFile  = "config.json"
	walletsFile = "wallets.json"
	grantsFile  = "grants.json"
	logFile     = "nftmint.log"
	keysDir     = "keys"
)

// Load reads config from dir (or creates defaults). dir defaults to ~/.nftmint.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".nftmint")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Reload re-reads the config from disk, dropping unsaved changes such as
// per-invocation flag overrides.
func (c *Config) Reload() error {
	fresh, err := Load(c.configDir)
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

// Set updates a single setting by its JSON key. Used by `nftmint config set`.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "provider":
		if value != ProviderKeystore && value != ProviderRPC {
			return fmt.Errorf("provider must be %q or %q, got %q", ProviderKeystore, ProviderRPC, value)
		}
		c.Provider = value
	case "rpc_url":
		c.RPCURL = value
	case "wallet_rpc_url":
		c.WalletRPCURL = value
	case "contract_address":
		if !common.IsHexAddress(value) {
			return fmt.Errorf("invalid contract address: %s", value)
		}
		c.ContractAddress = common.HexToAddress(value).Hex()
	case "default_wallet":
		c.DefaultWallet = value
	case "receipt_poll_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("receipt_poll_ms must be a positive integer, got %q", value)
		}
		c.ReceiptPollMS = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the path of wallets.json.
func (c *Config) WalletsPath() string { return filepath.Join(c.configDir, walletsFile) }

// GrantsPath returns the path of grants.json.
func (c *Config) GrantsPath() string { return filepath.Join(c.configDir, grantsFile) }

// LogPath returns the path of the rotating log file.
func (c *Config) LogPath() string { return filepath.Join(c.configDir, logFile) }

// KeysDir is where the keyring file backend keeps encrypted keys.
func (c *Config) KeysDir() string { return filepath.Join(c.configDir, keysDir) }

// Contract returns the configured contract address, falling back to the
// built-in deployment.
func (c *Config) Contract() common.Address {
	if common.IsHexAddress(c.ContractAddress) {
		return common.HexToAddress(c.ContractAddress)
	}
	return common.HexToAddress(DefaultContractAddress)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		Provider:        defaultProvider,
		RPCURL:          defaultRPCURL,
		ContractAddress: DefaultContractAddress,
		ReceiptPollMS:   defaultPollMS,
		configDir:       dir,
	}
}
