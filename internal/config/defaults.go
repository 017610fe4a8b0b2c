package config

import "github.com/soyeahso/pocketfi/internal/domain"

// Defaults returns the baseline configuration. Networks ship with the USDC
// contract addresses for the chains the dashboard targets.
func Defaults() Config {
	return Config{
		Network: "base",
		Networks: map[string]domain.NetworkConfig{
			"ethereum": {
				NetworkName:  "Ethereum Mainnet",
				ChainID:      1,
				TokenAddress: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
				TokenSymbol:  "USDC",
				Decimals:     6,
				ExplorerURL:  "https://etherscan.io",
			},
			"base": {
				NetworkName:  "Base",
				ChainID:      8453,
				TokenAddress: "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
				TokenSymbol:  "USDC",
				Decimals:     6,
				ExplorerURL:  "https://basescan.org",
			},
			"base-sepolia": {
				NetworkName:  "Base Sepolia",
				ChainID:      84532,
				TokenAddress: "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
				TokenSymbol:  "USDC",
				Decimals:     6,
				ExplorerURL:  "https://sepolia.basescan.org",
			},
		},
		Engine: EngineConfig{
			HistoryBudget:  20,
			ToolTimeoutSec: 15,
			MaxTransfer:    10000,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
		},
		Gateway: GatewayConfig{
			Port: 8787,
			Bind: "loopback",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// applyDefaults fills zero-valued fields on a parsed config.
func applyDefaults(cfg *Config) {
	def := Defaults()
	if cfg.Network == "" {
		cfg.Network = def.Network
	}
	if len(cfg.Networks) == 0 {
		cfg.Networks = def.Networks
	}
	if cfg.Engine.HistoryBudget == 0 {
		cfg.Engine.HistoryBudget = def.Engine.HistoryBudget
	}
	if cfg.Engine.ToolTimeoutSec == 0 {
		cfg.Engine.ToolTimeoutSec = def.Engine.ToolTimeoutSec
	}
	if cfg.Engine.MaxTransfer == 0 {
		cfg.Engine.MaxTransfer = def.Engine.MaxTransfer
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = def.LLM.Model
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = def.LLM.MaxTokens
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = def.Gateway.Port
	}
	if cfg.Gateway.Bind == "" {
		cfg.Gateway.Bind = def.Gateway.Bind
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
}

// ActiveNetwork returns the configured network record.
func (c Config) ActiveNetwork() (domain.NetworkConfig, error) {
	net, ok := c.Networks[c.Network]
	if !ok {
		return domain.NetworkConfig{}, &ConfigError{Message: "unknown network: " + c.Network}
	}
	return net, nil
}
