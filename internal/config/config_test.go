package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Market.CacheTTL)
	assert.Equal(t, "https://query1.finance.yahoo.com", cfg.Market.ProviderBaseURL)
	assert.Equal(t, "3mo", cfg.Market.DefaultRange)
	assert.Len(t, cfg.Market.Symbols, 10)
	assert.Contains(t, cfg.Market.Symbols, "AAPL")
	assert.True(t, cfg.Refresh.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STOCKDASH_SERVER_PORT", "9090")
	t.Setenv("STOCKDASH_MARKET_SYMBOLS", "aapl, msft")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	// Symbols are normalized to upper case
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Market.Symbols)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = -1 },
			wantErr: "invalid server port",
		},
		{
			name:    "missing provider URL",
			mutate:  func(c *Config) { c.Market.ProviderBaseURL = "" },
			wantErr: "provider base URL",
		},
		{
			name:    "non-positive TTL",
			mutate:  func(c *Config) { c.Market.CacheTTL = 0 },
			wantErr: "cache TTL",
		},
		{
			name:    "empty symbol list",
			mutate:  func(c *Config) { c.Market.Symbols = nil },
			wantErr: "at least one market symbol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAllowsSymbol(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.AllowsSymbol("TSLA"))
	assert.False(t, cfg.AllowsSymbol("ENRON"))
}
