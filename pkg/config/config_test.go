package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultGasPrice, cfg.GasPrice)
	assert.Equal(t, DefaultGasLimit, cfg.GasLimit)
	assert.Equal(t, DefaultTxVersion, cfg.TxVersion)
	assert.Equal(t, JournalTypeNone, cfg.Journal.Type)
	assert.Equal(t, filepath.Join(cfg.SDKPath, DefaultJournalDirName), cfg.Journal.Path)
}

func TestLoad_MissingDefaultFileIsAllowed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultGasPrice, cfg.GasPrice)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_OverridesOnlyWhatIsSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "erdpy.toml")
	content := `
proxy = "https://testnet-api.elrond.com"
chain_id = "T"
gas_limit = 60000000
sdk_path = "` + filepath.ToSlash(dir) + `"

[journal]
type = "badger"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://testnet-api.elrond.com", cfg.Proxy)
	assert.Equal(t, "T", cfg.ChainID)
	assert.Equal(t, uint64(60000000), cfg.GasLimit)
	assert.Equal(t, DefaultGasPrice, cfg.GasPrice)
	assert.Equal(t, JournalTypeBadger, cfg.Journal.Type)
	assert.Equal(t, filepath.Join(filepath.ToSlash(dir), DefaultJournalDirName), cfg.Journal.Path)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erdpy.toml")
	require.NoError(t, os.WriteFile(path, []byte("proxy = = nope"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr string
	}{
		{
			name:        "proxy is not a URL",
			mutate:      func(c *Config) { c.Proxy = "localhost:7950" },
			expectedErr: "proxy",
		},
		{
			name:        "zero gas price",
			mutate:      func(c *Config) { c.GasPrice = 0 },
			expectedErr: "gas_price",
		},
		{
			name:        "zero gas limit",
			mutate:      func(c *Config) { c.GasLimit = 0 },
			expectedErr: "gas_limit",
		},
		{
			name:        "empty sdk path",
			mutate:      func(c *Config) { c.SDKPath = "" },
			expectedErr: "sdk_path",
		},
		{
			name:        "unknown journal type",
			mutate:      func(c *Config) { c.Journal.Type = "postgres" },
			expectedErr: "journal.type",
		},
		{
			name: "redis journal without address",
			mutate: func(c *Config) {
				c.Journal.Type = JournalTypeRedis
				c.Journal.RedisAddress = ""
			},
			expectedErr: "journal.redis_address",
		},
		{
			name:        "modules url missing",
			mutate:      func(c *Config) { c.ModulesURL = "" },
			expectedErr: "modules_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestConfig_Validate_AcceptsHTTPProxy(t *testing.T) {
	cfg := Default()
	cfg.Proxy = "http://localhost:7950"
	require.NoError(t, cfg.Validate())
}

func TestGetChainName(t *testing.T) {
	assert.Equal(t, "mainnet", GetChainName("1"))
	assert.Equal(t, "testnet", GetChainName("T"))
	assert.Equal(t, "devnet", GetChainName("D"))
	assert.Equal(t, "my-chain", GetChainName("my-chain"))
}
