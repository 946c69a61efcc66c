package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvRPCURL, "https://polygon-rpc.example")
	t.Setenv(EnvBaseToken, "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174")
	t.Setenv(EnvIntermediateToken, "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619")
	t.Setenv(EnvUniswapQuoter, "0x61fFE014bA17989E743c5F6cB21bF9697530B21e")
	t.Setenv(EnvAlgebraQuoter, "0xa15F0D7377B2A0C0c10db057f641beD21028FC89")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, uint32(500), cfg.FeeTier)
	assert.Equal(t, 6, cfg.BaseDecimals)
	assert.Equal(t, 18, cfg.IntermediateDecimals)
	assert.Equal(t, "10000000000", cfg.StartAmount.String()) // 10000 at 6dp
	assert.Equal(t, "20000", cfg.GasPerTx.String())          // 0.02 at 6dp
	assert.Equal(t, "100000", cfg.ProfitThreshold.String())  // 0.1 at 6dp
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.QuoteTimeout)
	assert.Equal(t, "profit.txt", cfg.JournalPath)
	assert.False(t, cfg.MetricsEnabled)
}

func TestRoundTripCost(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvGasPerTx, "0.02")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	// Two transactions per round trip.
	assert.Equal(t, "40000", cfg.RoundTripCost().String())
}

func TestLoadConfigCollectsAllErrors(t *testing.T) {
	t.Setenv(EnvRPCURL, "")
	t.Setenv(EnvBaseToken, "not-an-address")
	t.Setenv(EnvStartAmount, "abc")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RPC endpoint")
	assert.Contains(t, err.Error(), "base token")
	assert.Contains(t, err.Error(), "start amount")
}

func TestLoadConfigDecimalPrecision(t *testing.T) {
	setRequiredEnv(t)

	// A value that would drift through float64 parses exactly.
	t.Setenv(EnvStartAmount, "10000.000001")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "10000000001", cfg.StartAmount.String())
}

func TestLoadConfigYAMLFillsUnsetFields(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvStartAmount, "2500") // env wins over the file

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "start_amount: \"9999\"\npoll_interval: 30s\nuniv3_fee: \"3000\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "2500000000", cfg.StartAmount.String())
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, uint32(3000), cfg.FeeTier)
	assert.Equal(t, common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"), cfg.BaseToken)
}

func TestLoadConfigMissingFile(t *testing.T) {
	setRequiredEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
