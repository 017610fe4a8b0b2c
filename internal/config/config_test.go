package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "base", cfg.Network)
	assert.Contains(t, cfg.Networks, "base")
	assert.Contains(t, cfg.Networks, "ethereum")
	assert.Equal(t, 6, cfg.Networks["base"].Decimals)
	assert.Empty(t, Validate(cfg))
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "base", cfg.Network)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
network: ethereum
engine:
  historyBudget: 8
llm:
  provider: mock
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ethereum", cfg.Network)
	assert.Equal(t, 8, cfg.Engine.HistoryBudget)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	// defaults still filled in
	assert.Equal(t, 8787, cfg.Gateway.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("POCKETFI_NETWORK", "base-sepolia")
	t.Setenv("POCKETFI_GATEWAY_PORT", "9999")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "base-sepolia", cfg.Network)
	assert.Equal(t, 9999, cfg.Gateway.Port)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("POCKETFI_TEST_SECRET", "s3cret")
	assert.Equal(t, "s3cret", expandEnvVars("${POCKETFI_TEST_SECRET}"))
	assert.Equal(t, "${UNSET_VAR_XYZ}", expandEnvVars("${UNSET_VAR_XYZ}"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}

func TestLoad_ExpandsAPIKey(t *testing.T) {
	t.Setenv("MY_LLM_KEY", "abc123")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  apiKey: ${MY_LLM_KEY}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.LLM.APIKey)
}

func TestValidate_BadConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Network = "moonbeam"
	cfg.Engine.MaxTransfer = -1
	cfg.LLM.Provider = "magic"

	problems := Validate(cfg)
	assert.Len(t, problems, 3)
}

func TestActiveNetwork(t *testing.T) {
	cfg := Defaults()
	net, err := cfg.ActiveNetwork()
	require.NoError(t, err)
	assert.Equal(t, int64(8453), net.ChainID)

	cfg.Network = "unknown"
	_, err = cfg.ActiveNetwork()
	assert.Error(t, err)
}
