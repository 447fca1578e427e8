package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	DataDir string
	Config  string

	// Provider
	Endpoint string
	Timeout  int

	// Funding
	Dust    uint64
	FeeRate uint64

	// Wallet
	Wallet    bool
	WalletDir string

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args (subcommand and its arguments)
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetWallet  bool
	SetLogJSON bool
}

// ParseFlags parses command-line flags.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("treasury", flag.ContinueOnError)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network type (mainnet, testnet3, testnet4, chipnet)")
	fs.BoolVar(new(bool), "chipnet", false, "Use chipnet (shorthand for --network=chipnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// Provider
	fs.StringVar(&f.Endpoint, "endpoint", "", "Chain data provider JSON-RPC endpoint")
	fs.IntVar(&f.Timeout, "timeout", 0, "Provider request timeout in seconds")

	// Funding
	fs.Uint64Var(&f.Dust, "dust", 0, "Dust limit in satoshis (floored at the network minimum)")
	fs.Uint64Var(&f.FeeRate, "feerate", 0, "Fee rate in satoshis per byte")

	// Wallet
	fs.BoolVar(&f.Wallet, "wallet", true, "Enable local keystore")
	fs.StringVar(&f.WalletDir, "wallet-dir", "", "Keystore directory path")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	// Custom usage
	fs.Usage = Usage

	// Parse
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Handle --chipnet shorthand
	if isFlagSet(fs, "chipnet") {
		f.Network = string(Chipnet)
	}
	f.SetWallet = isFlagSet(fs, "wallet")
	f.SetLogJSON = isFlagSet(fs, "log-json")

	f.Args = fs.Args()

	return f
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// Provider
	if f.Endpoint != "" {
		cfg.Provider.Endpoint = f.Endpoint
	}
	if f.Timeout != 0 {
		cfg.Provider.TimeoutSeconds = f.Timeout
	}

	// Funding
	if f.Dust != 0 {
		cfg.Funding.DustLimit = f.Dust
	}
	if f.FeeRate != 0 {
		cfg.Funding.FeeRate = f.FeeRate
	}

	// Wallet
	if f.SetWallet {
		cfg.Wallet.Enabled = f.Wallet
	}
	if f.WalletDir != "" {
		cfg.Wallet.Dir = f.WalletDir
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Usage prints the CLI usage text.
func Usage() {
	usage := `Klingnet Treasury - covenant funding and state-transition engine

Usage:
  treasury-cli [options] <command> [args]
  treasury-cli --help

Commands:
  wallet create --name <n>                Create a new encrypted wallet
  wallet import --name <n> --mnemonic ".."  Import a wallet from its mnemonic
  wallet list                             List wallets
  wallet address --wallet <w>             List funding addresses
  wallet new-address --wallet <w>         Derive the next funding address
  deploy vault <label> ...                Deploy a rate-limited vault
  deploy payment <label> ...              Deploy a recurring payment covenant
  deploy airdrop <label> ...              Deploy an airdrop claim pool
  fund <label> --wallet <w> --tokens <n>  Top up an instance with tokens
  pause <label>                           Build a pause transition proposal
  resume <label>                          Build a resume transition proposal
  cancel <label>                          Build a cancel transition proposal
  status <label>                          Read on-chain covenant state
  verify <txid> ...                       Check a broadcast tx for an output
  watch [--interval <sec>] [label...]     Poll covenant balances
  list                                    List registered covenants

Core Options:
  --network       Network type: mainnet (default), testnet3, testnet4, chipnet
  --chipnet       Shorthand for --network=chipnet
  --datadir       Data directory (default: ~/.klingnet-treasury)
  --config, -c    Config file path (default: <datadir>/treasury.conf)

Provider Options:
  --endpoint      Chain data provider JSON-RPC endpoint
  --timeout       Provider request timeout in seconds (default: 10)

Funding Options:
  --dust          Dust limit in satoshis (floored at the network minimum)
  --feerate       Fee rate in satoshis per byte (default: 2)

Wallet Options:
  --wallet        Enable local keystore (default: true)
  --wallet-dir    Keystore directory path

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stdout)
  --log-json      Output logs as JSON

Examples:
  # Deploy a vault on chipnet
  treasury-cli --chipnet deploy vault payroll --period=86400 --limit=0.5 --funding=1.0

  # Pause it later
  treasury-cli --chipnet pause payroll

  # Check its on-chain state
  treasury-cli --chipnet status payroll
`
	fmt.Print(usage)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
func Load() (*Config, *Flags, error) {
	flags := ParseFlags()

	// Handle help/version
	if flags.Help {
		Usage()
		os.Exit(0)
	}
	if flags.Version {
		fmt.Println("treasury-cli version 0.1.0")
		os.Exit(0)
	}

	// Determine network first (needed for defaults)
	network := Mainnet
	if flags.Network != "" {
		network = NetworkType(strings.ToLower(flags.Network))
	}

	// Start with defaults
	cfg := Default(network)

	// Override datadir if specified
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	// Auto-create data directories and default config on first start.
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	// Determine config file path
	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	// Load config file
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}

	// Apply file config
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	// Apply flags (highest precedence)
	ApplyFlags(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, flags, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Idempotent.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.RegistryDir(),
		cfg.KeystoreDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	// Create default config if it doesn't exist.
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}

	return nil
}
