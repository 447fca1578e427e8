package config

// Default returns the default configuration for a network.
func Default(network NetworkType) *Config {
	cfg := &Config{
		Network: network,
		DataDir: DefaultDataDir(),
		Provider: ProviderConfig{
			TimeoutSeconds: 10,
		},
		Funding: FundingConfig{
			DustLimit:  NetworkDust,
			FeeRate:    2,
			MinFunding: 10_000,
		},
		Wallet: WalletConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	switch network {
	case Mainnet:
		cfg.Provider.Endpoint = "http://127.0.0.1:18545"
	case Testnet3:
		cfg.Provider.Endpoint = "http://127.0.0.1:28545"
	case Testnet4:
		cfg.Provider.Endpoint = "http://127.0.0.1:28645"
	case Chipnet:
		cfg.Provider.Endpoint = "http://127.0.0.1:38545"
	}

	return cfg
}
