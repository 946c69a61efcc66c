package config

import (
	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvRPCURL               = "RPC_URL"
	EnvBaseToken            = "BASE_TOKEN"
	EnvIntermediateToken    = "INTERMEDIATE_TOKEN"
	EnvUniswapQuoter        = "UNISWAP_QUOTER"
	EnvAlgebraQuoter        = "ALGEBRA_QUOTER"
	EnvFeeTier              = "UNIV3_FEE"
	EnvBaseDecimals         = "BASE_DECIMALS"
	EnvIntermediateDecimals = "INTERMEDIATE_DECIMALS"
	EnvStartAmount          = "START_AMOUNT"
	EnvGasPerTx             = "GAS_PER_TX"
	EnvProfitThreshold      = "PROFIT_THRESHOLD"
	EnvPollInterval         = "POLL_INTERVAL"
	EnvQuoteTimeout         = "QUOTE_TIMEOUT"
	EnvRPCRateLimit         = "RPC_RATE_LIMIT"
	EnvRPCRateBurst         = "RPC_RATE_BURST"
	EnvJournalPath          = "JOURNAL_PATH"
	EnvMetricsEnabled       = "METRICS_ENABLED"
	EnvMetricsEndpoint      = "METRICS_ENDPOINT"
	EnvTelegramToken        = "TELEGRAM_TOKEN"
	EnvTelegramChatID       = "TELEGRAM_CHAT_ID"
)

// LoadEnv loads environment variables from a .env file when one exists. A
// missing file is not an error; the environment itself still applies.
func LoadEnv() {
	_ = godotenv.Load()
}
