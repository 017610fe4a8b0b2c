package config

import (
	"fmt"
	"regexp"
)

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Validate checks a loaded config for problems that would break the engine
// at runtime. It returns all findings, not just the first.
func Validate(cfg Config) []string {
	var problems []string

	if _, ok := cfg.Networks[cfg.Network]; !ok {
		problems = append(problems, fmt.Sprintf("network %q is not defined under networks", cfg.Network))
	}

	for name, net := range cfg.Networks {
		if net.ChainID <= 0 {
			problems = append(problems, fmt.Sprintf("networks.%s: chainId must be positive", name))
		}
		if !addressRe.MatchString(net.TokenAddress) {
			problems = append(problems, fmt.Sprintf("networks.%s: tokenAddress is not a 20-byte hex address", name))
		}
		if net.Decimals < 0 || net.Decimals > 36 {
			problems = append(problems, fmt.Sprintf("networks.%s: decimals out of range", name))
		}
	}

	if cfg.Engine.HistoryBudget < 2 {
		problems = append(problems, "engine.historyBudget must be at least 2")
	}
	if cfg.Engine.MaxTransfer <= 0 {
		problems = append(problems, "engine.maxTransfer must be positive")
	}

	switch cfg.LLM.Provider {
	case "openai", "mock":
	default:
		problems = append(problems, fmt.Sprintf("llm.provider %q is not supported", cfg.LLM.Provider))
	}

	if cfg.Gateway.Port < 0 || cfg.Gateway.Port > 65535 {
		problems = append(problems, "gateway.port out of range")
	}

	return problems
}
