package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"

	"github.com/michaelpento.lv/arbwatch/utils/units"
)

// Config holds the process-wide settings, read once at startup and immutable
// afterwards. Amounts are kept in base units of the base asset.
type Config struct {
	// Chain and venue settings
	RPCEndpoint       string
	BaseToken         common.Address
	IntermediateToken common.Address
	UniswapQuoter     common.Address
	AlgebraQuoter     common.Address
	FeeTier           uint32

	// Asset precision
	BaseDecimals         int
	IntermediateDecimals int

	// Trade sizing and profitability
	StartAmount     *big.Int
	GasPerTx        *big.Int
	ProfitThreshold *big.Int

	// Loop behavior
	PollInterval time.Duration
	QuoteTimeout time.Duration
	RPCRateLimit float64
	RPCRateBurst int

	// Outputs
	JournalPath     string
	MetricsEnabled  bool
	MetricsEndpoint string
	TelegramToken   string
	TelegramChatID  string
}

// rawConfig carries the unparsed settings as read from the environment or a
// YAML file. Empty fields fall back to defaults at conversion time.
type rawConfig struct {
	RPCEndpoint          string `yaml:"rpc_url"`
	BaseToken            string `yaml:"base_token"`
	IntermediateToken    string `yaml:"intermediate_token"`
	UniswapQuoter        string `yaml:"uniswap_quoter"`
	AlgebraQuoter        string `yaml:"algebra_quoter"`
	FeeTier              string `yaml:"univ3_fee"`
	BaseDecimals         string `yaml:"base_decimals"`
	IntermediateDecimals string `yaml:"intermediate_decimals"`
	StartAmount          string `yaml:"start_amount"`
	GasPerTx             string `yaml:"gas_per_tx"`
	ProfitThreshold      string `yaml:"profit_threshold"`
	PollInterval         string `yaml:"poll_interval"`
	QuoteTimeout         string `yaml:"quote_timeout"`
	RPCRateLimit         string `yaml:"rpc_rate_limit"`
	RPCRateBurst         string `yaml:"rpc_rate_burst"`
	JournalPath          string `yaml:"journal_path"`
	MetricsEnabled       string `yaml:"metrics_enabled"`
	MetricsEndpoint      string `yaml:"metrics_endpoint"`
	TelegramToken        string `yaml:"telegram_token"`
	TelegramChatID       string `yaml:"telegram_chat_id"`
}

func fromEnv() rawConfig {
	return rawConfig{
		RPCEndpoint:          os.Getenv(EnvRPCURL),
		BaseToken:            os.Getenv(EnvBaseToken),
		IntermediateToken:    os.Getenv(EnvIntermediateToken),
		UniswapQuoter:        os.Getenv(EnvUniswapQuoter),
		AlgebraQuoter:        os.Getenv(EnvAlgebraQuoter),
		FeeTier:              os.Getenv(EnvFeeTier),
		BaseDecimals:         os.Getenv(EnvBaseDecimals),
		IntermediateDecimals: os.Getenv(EnvIntermediateDecimals),
		StartAmount:          os.Getenv(EnvStartAmount),
		GasPerTx:             os.Getenv(EnvGasPerTx),
		ProfitThreshold:      os.Getenv(EnvProfitThreshold),
		PollInterval:         os.Getenv(EnvPollInterval),
		QuoteTimeout:         os.Getenv(EnvQuoteTimeout),
		RPCRateLimit:         os.Getenv(EnvRPCRateLimit),
		RPCRateBurst:         os.Getenv(EnvRPCRateBurst),
		JournalPath:          os.Getenv(EnvJournalPath),
		MetricsEnabled:       os.Getenv(EnvMetricsEnabled),
		MetricsEndpoint:      os.Getenv(EnvMetricsEndpoint),
		TelegramToken:        os.Getenv(EnvTelegramToken),
		TelegramChatID:       os.Getenv(EnvTelegramChatID),
	}
}

// overlay replaces empty fields of r with values from o.
func (r *rawConfig) overlay(o rawConfig) {
	fields := []struct {
		dst *string
		src string
	}{
		{&r.RPCEndpoint, o.RPCEndpoint},
		{&r.BaseToken, o.BaseToken},
		{&r.IntermediateToken, o.IntermediateToken},
		{&r.UniswapQuoter, o.UniswapQuoter},
		{&r.AlgebraQuoter, o.AlgebraQuoter},
		{&r.FeeTier, o.FeeTier},
		{&r.BaseDecimals, o.BaseDecimals},
		{&r.IntermediateDecimals, o.IntermediateDecimals},
		{&r.StartAmount, o.StartAmount},
		{&r.GasPerTx, o.GasPerTx},
		{&r.ProfitThreshold, o.ProfitThreshold},
		{&r.PollInterval, o.PollInterval},
		{&r.QuoteTimeout, o.QuoteTimeout},
		{&r.RPCRateLimit, o.RPCRateLimit},
		{&r.RPCRateBurst, o.RPCRateBurst},
		{&r.JournalPath, o.JournalPath},
		{&r.MetricsEnabled, o.MetricsEnabled},
		{&r.MetricsEndpoint, o.MetricsEndpoint},
		{&r.TelegramToken, o.TelegramToken},
		{&r.TelegramChatID, o.TelegramChatID},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
}

// LoadConfig builds the configuration from the environment (after loading a
// .env file if present), with an optional YAML file filling in anything the
// environment left unset. Validation problems are collected into one error.
func LoadConfig(cfgFile string) (*Config, error) {
	LoadEnv()

	raw := fromEnv()
	if cfgFile != "" {
		data, err := os.ReadFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var fileRaw rawConfig
		if err := yaml.Unmarshal(data, &fileRaw); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
		raw.overlay(fileRaw)
	}

	return raw.parse()
}

func (r rawConfig) parse() (*Config, error) {
	var errs []string
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	cfg := &Config{
		RPCEndpoint:     r.RPCEndpoint,
		JournalPath:     pick(r.JournalPath, "profit.txt"),
		MetricsEndpoint: pick(r.MetricsEndpoint, ":9090"),
		TelegramToken:   r.TelegramToken,
		TelegramChatID:  r.TelegramChatID,
	}

	cfg.BaseToken = parseAddress(r.BaseToken, "base token", fail)
	cfg.IntermediateToken = parseAddress(r.IntermediateToken, "intermediate token", fail)
	cfg.UniswapQuoter = parseAddress(r.UniswapQuoter, "uniswap quoter", fail)
	cfg.AlgebraQuoter = parseAddress(r.AlgebraQuoter, "algebra quoter", fail)

	fee, err := strconv.ParseUint(pick(r.FeeTier, "500"), 10, 24)
	if err != nil {
		fail("invalid fee tier %q: %v", r.FeeTier, err)
	}
	cfg.FeeTier = uint32(fee)

	cfg.BaseDecimals = parseDecimals(pick(r.BaseDecimals, "6"), "base decimals", fail)
	cfg.IntermediateDecimals = parseDecimals(pick(r.IntermediateDecimals, "18"), "intermediate decimals", fail)

	cfg.StartAmount = parseAmount(pick(r.StartAmount, "10000"), cfg.BaseDecimals, "start amount", fail)
	cfg.GasPerTx = parseAmount(pick(r.GasPerTx, "0.02"), cfg.BaseDecimals, "gas estimate", fail)
	cfg.ProfitThreshold = parseAmount(pick(r.ProfitThreshold, "0.1"), cfg.BaseDecimals, "profit threshold", fail)

	cfg.PollInterval = parseDuration(pick(r.PollInterval, "5s"), "poll interval", fail)
	cfg.QuoteTimeout = parseDuration(pick(r.QuoteTimeout, "10s"), "quote timeout", fail)

	limit, err := strconv.ParseFloat(pick(r.RPCRateLimit, "10"), 64)
	if err != nil || limit <= 0 {
		fail("invalid RPC rate limit %q", r.RPCRateLimit)
	}
	cfg.RPCRateLimit = limit

	burst, err := strconv.Atoi(pick(r.RPCRateBurst, "20"))
	if err != nil || burst <= 0 {
		fail("invalid RPC rate burst %q", r.RPCRateBurst)
	}
	cfg.RPCRateBurst = burst

	if r.MetricsEnabled != "" {
		enabled, err := strconv.ParseBool(r.MetricsEnabled)
		if err != nil {
			fail("invalid metrics_enabled %q", r.MetricsEnabled)
		}
		cfg.MetricsEnabled = enabled
	}

	if cfg.RPCEndpoint == "" {
		fail("RPC endpoint must be specified")
	}
	if cfg.StartAmount != nil && cfg.StartAmount.Sign() <= 0 {
		fail("start amount must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

// RoundTripCost is the estimated transaction cost for a full buy+sell round
// trip, in base units: two transactions at the configured per-tx estimate.
func (c *Config) RoundTripCost() *big.Int {
	return new(big.Int).Mul(c.GasPerTx, big.NewInt(2))
}

func parseAddress(s, name string, fail func(string, ...interface{})) common.Address {
	if s == "" {
		fail("%s address must be specified", name)
		return common.Address{}
	}
	if !common.IsHexAddress(s) {
		fail("invalid %s address %q", name, s)
		return common.Address{}
	}
	return common.HexToAddress(s)
}

func parseDecimals(s, name string, fail func(string, ...interface{})) int {
	d, err := strconv.Atoi(s)
	if err != nil || d < 0 || d > 36 {
		fail("invalid %s %q", name, s)
		return 0
	}
	return d
}

// parseAmount scales a human-entered decimal string to base units without a
// floating-point intermediate.
func parseAmount(s string, decimals int, name string, fail func(string, ...interface{})) *big.Int {
	amount, err := units.ParseAmount(s, decimals)
	if err != nil {
		fail("invalid %s %q: %v", name, s, err)
		return nil
	}
	return amount
}

func parseDuration(s, name string, fail func(string, ...interface{})) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		fail("invalid %s %q", name, s)
		return 0
	}
	return d
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
