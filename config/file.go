package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadFile loads treasury configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a treasury config value by key.
// Only operational settings; network rules (dust minimum) are floored
// during validation and cannot be lowered from here.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(value)
	case "datadir":
		cfg.DataDir = value

	// Provider
	case "provider.endpoint":
		cfg.Provider.Endpoint = value
	case "provider.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Provider.TimeoutSeconds = n

	// Funding
	case "funding.dust":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Funding.DustLimit = n
	case "funding.feerate":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Funding.FeeRate = n
	case "funding.min":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Funding.MinFunding = n
	case "funding.min_vault":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Funding.MinVaultFunding = n
	case "funding.min_payment":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Funding.MinPaymentFunding = n
	case "funding.min_airdrop":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Funding.MinAirdropFunding = n

	// Wallet
	case "wallet.enabled", "wallet":
		cfg.Wallet.Enabled = parseBool(value)
	case "wallet.dir":
		cfg.Wallet.Dir = value

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default treasury configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	def := Default(network)
	content := `# Klingnet Treasury Configuration
#
# This file contains OPERATIONAL settings only.
# Network rules (dust minimum, address format) are fixed per network
# and cannot be changed here.

# Network: mainnet, testnet3, testnet4 or chipnet
network = ` + string(network) + `

# Data directory (default: ~/.klingnet-treasury)
# datadir = ~/.klingnet-treasury

# ============================================================================
# Provider
# ============================================================================

# JSON-RPC endpoint of the chain data provider
provider.endpoint = ` + def.Provider.Endpoint + `

# Request timeout in seconds
provider.timeout = 10

# ============================================================================
# Funding
# ============================================================================

# Dust limit in satoshis (floored at the network minimum of 546)
funding.dust = ` + strconv.FormatUint(def.Funding.DustLimit, 10) + `

# Fee rate in satoshis per byte
funding.feerate = ` + strconv.FormatUint(def.Funding.FeeRate, 10) + `

# Minimum funding per covenant in satoshis
funding.min = ` + strconv.FormatUint(def.Funding.MinFunding, 10) + `

# Per-kind overrides (0 = use funding.min)
# funding.min_vault = 0
# funding.min_payment = 0
# funding.min_airdrop = 0

# ============================================================================
# Wallet
# ============================================================================

wallet.enabled = true
# wallet.dir = ~/.klingnet-treasury/mainnet/keystore

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
