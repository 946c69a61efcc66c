package cmd

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/michaelpento.lv/arbwatch/config"
	"github.com/michaelpento.lv/arbwatch/dex/algebra"
	"github.com/michaelpento.lv/arbwatch/dex/uniswapv3"
	"github.com/michaelpento.lv/arbwatch/journal"
	"github.com/michaelpento.lv/arbwatch/notify"
	"github.com/michaelpento.lv/arbwatch/strategies/arbitrage"
	"github.com/michaelpento.lv/arbwatch/utils"
	"github.com/michaelpento.lv/arbwatch/utils/metrics"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the arbitrage monitor loop",
	Run: func(cmd *cobra.Command, args []string) {
		log := utils.GetLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal("Failed to load config", zap.Error(err))
		}

		ctx := cmd.Context()
		client, err := ethclient.Dial(cfg.RPCEndpoint)
		if err != nil {
			log.Fatal("Failed to connect to node", zap.Error(err))
		}
		defer client.Close()

		// Startup sanity check: the node must answer before the loop starts.
		block, err := client.BlockNumber(ctx)
		if err != nil {
			log.Fatal("Failed to reach node", zap.String("endpoint", cfg.RPCEndpoint), zap.Error(err))
		}
		log.Info("Connected to node", zap.Uint64("latest_block", block))

		limiter := rate.NewLimiter(rate.Limit(cfg.RPCRateLimit), cfg.RPCRateBurst)

		venue1, err := uniswapv3.NewQuoter(client, cfg.UniswapQuoter, cfg.FeeTier, limiter, cfg.QuoteTimeout)
		if err != nil {
			log.Fatal("Failed to create Uniswap quoter", zap.Error(err))
		}
		venue2, err := algebra.NewQuoter(client, cfg.AlgebraQuoter, limiter, cfg.QuoteTimeout)
		if err != nil {
			log.Fatal("Failed to create Algebra quoter", zap.Error(err))
		}

		jrnl := journal.New(cfg.JournalPath, cfg.BaseDecimals, cfg.IntermediateDecimals)

		var sender notify.Sender
		if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
			sender = notify.NewTelegramSender(cfg.TelegramToken, cfg.TelegramChatID)
		}

		var m *metrics.ScannerMetrics
		if cfg.MetricsEnabled {
			m = metrics.NewScannerMetrics("arbwatch")
			go metrics.Serve(cfg.MetricsEndpoint, log)
		}

		engine := arbitrage.NewEngine(cfg, venue1, venue2, jrnl, sender, m, log)
		if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Monitor loop stopped", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
