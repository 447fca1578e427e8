// Package config handles treasury runtime configuration.
//
// Configuration comes from defaults, an optional .conf file, and flags, in
// that order of precedence. Protocol constants (dust minimum, address
// encoding) are fixed per network and only floored, never lowered, by
// operator settings.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType selects which chain the engine talks to.
type NetworkType string

const (
	Mainnet  NetworkType = "mainnet"
	Testnet3 NetworkType = "testnet3"
	Testnet4 NetworkType = "testnet4"
	Chipnet  NetworkType = "chipnet"
)

// Valid reports whether the network is a known selector.
func (n NetworkType) Valid() bool {
	switch n {
	case Mainnet, Testnet3, Testnet4, Chipnet:
		return true
	}
	return false
}

// NetworkDust is the network minimum standard output value in satoshis.
// Operator dust settings are floored here.
const NetworkDust = 546

// Config holds treasury runtime settings.
type Config struct {
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	Provider ProviderConfig
	Funding  FundingConfig
	Wallet   WalletConfig
	Log      LogConfig
}

// ProviderConfig holds network data provider settings.
type ProviderConfig struct {
	Endpoint       string `conf:"provider.endpoint"`
	TimeoutSeconds int    `conf:"provider.timeout"`
}

// FundingConfig holds dust and funding floors. Per-kind minimums override
// the global minimum; all of them are floored at the network dust minimum
// during validation.
type FundingConfig struct {
	DustLimit  uint64 `conf:"funding.dust"`
	FeeRate    uint64 `conf:"funding.feerate"`
	MinFunding uint64 `conf:"funding.min"`

	MinVaultFunding   uint64 `conf:"funding.min_vault"`
	MinPaymentFunding uint64 `conf:"funding.min_payment"`
	MinAirdropFunding uint64 `conf:"funding.min_airdrop"`
}

// MinFundingFor returns the funding floor for a covenant kind name
// ("vault", "payment", "airdrop"), falling back to the global minimum.
func (f FundingConfig) MinFundingFor(kind string) uint64 {
	var min uint64
	switch kind {
	case "vault":
		min = f.MinVaultFunding
	case "payment":
		min = f.MinPaymentFunding
	case "airdrop":
		min = f.MinAirdropFunding
	}
	if min == 0 {
		min = f.MinFunding
	}
	if min < f.DustLimit {
		min = f.DustLimit
	}
	return min
}

// WalletConfig holds local keystore settings.
type WalletConfig struct {
	Enabled bool   `conf:"wallet.enabled"`
	Dir     string `conf:"wallet.dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// AddressHRP returns the bech32 human-readable prefix for the network.
func (c *Config) AddressHRP() string {
	if c.Network == Mainnet {
		return "kgx"
	}
	return "tkgx"
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingnet-treasury
//	macOS:   ~/Library/Application Support/KlingnetTreasury
//	Windows: %APPDATA%\KlingnetTreasury
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingnet-treasury"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetTreasury")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "KlingnetTreasury")
		}
		return filepath.Join(home, "AppData", "Roaming", "KlingnetTreasury")
	default:
		return filepath.Join(home, ".klingnet-treasury")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// RegistryDir returns the covenant registry database directory.
func (c *Config) RegistryDir() string {
	return filepath.Join(c.NetworkDataDir(), "registry")
}

// KeystoreDir returns the wallet keystore directory.
func (c *Config) KeystoreDir() string {
	if c.Wallet.Dir != "" {
		return c.Wallet.Dir
	}
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "treasury.conf")
}
