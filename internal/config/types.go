package config

import "github.com/soyeahso/pocketfi/internal/domain"

// Config is the root configuration for pocketfi.
type Config struct {
	Network  string                          `yaml:"network,omitempty"` // active network name
	Networks map[string]domain.NetworkConfig `yaml:"networks,omitempty"`
	Engine   EngineConfig                    `yaml:"engine,omitempty"`
	LLM      LLMConfig                       `yaml:"llm,omitempty"`
	Gateway  GatewayConfig                   `yaml:"gateway,omitempty"`
	Store    StoreConfig                     `yaml:"store,omitempty"`
	Logging  LoggingConfig                   `yaml:"logging,omitempty"`
}

// EngineConfig tunes the conversational command engine.
type EngineConfig struct {
	HistoryBudget  int     `yaml:"historyBudget,omitempty"`  // messages kept when trimming
	ToolTimeoutSec int     `yaml:"toolTimeoutSec,omitempty"` // per-tool execution timeout
	MaxTransfer    float64 `yaml:"maxTransfer,omitempty"`    // hard safety ceiling, display units
}

// LLMConfig selects and configures the language-model backend.
type LLMConfig struct {
	Provider    string   `yaml:"provider,omitempty"` // "openai" | "mock"
	BaseURL     string   `yaml:"baseUrl,omitempty"`
	APIKey      string   `yaml:"apiKey,omitempty"`
	Model       string   `yaml:"model,omitempty"`
	MaxTokens   int      `yaml:"maxTokens,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// GatewayConfig controls the HTTP/WebSocket server.
type GatewayConfig struct {
	Port int         `yaml:"port,omitempty"`
	Bind string      `yaml:"bind,omitempty"` // "loopback" | "lan" | explicit host
	Auth GatewayAuth `yaml:"auth,omitempty"`
}

// GatewayAuth configures gateway authentication.
type GatewayAuth struct {
	Token string `yaml:"token,omitempty"`
}

// StoreConfig configures thread persistence.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"` // SQLite file, ":memory:" for ephemeral
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// ConfigError indicates invalid configuration.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }
