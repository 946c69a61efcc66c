package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/michaelpento.lv/arbwatch/config"
	"github.com/michaelpento.lv/arbwatch/dex"
	"github.com/michaelpento.lv/arbwatch/dex/algebra"
	"github.com/michaelpento.lv/arbwatch/dex/uniswapv3"
	"github.com/michaelpento.lv/arbwatch/utils"
	"github.com/michaelpento.lv/arbwatch/utils/units"
)

// quoteCmd probes both venues once with the configured start amount.
// Useful to verify endpoints and addresses before running the loop.
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Run a single buy-leg quote against both venues and exit",
	Run: func(cmd *cobra.Command, args []string) {
		log := utils.GetLogger()

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal("Failed to load config", zap.Error(err))
		}

		client, err := ethclient.Dial(cfg.RPCEndpoint)
		if err != nil {
			log.Fatal("Failed to connect to node", zap.Error(err))
		}
		defer client.Close()

		limiter := rate.NewLimiter(rate.Limit(cfg.RPCRateLimit), cfg.RPCRateBurst)

		venue1, err := uniswapv3.NewQuoter(client, cfg.UniswapQuoter, cfg.FeeTier, limiter, cfg.QuoteTimeout)
		if err != nil {
			log.Fatal("Failed to create Uniswap quoter", zap.Error(err))
		}
		venue2, err := algebra.NewQuoter(client, cfg.AlgebraQuoter, limiter, cfg.QuoteTimeout)
		if err != nil {
			log.Fatal("Failed to create Algebra quoter", zap.Error(err))
		}

		fmt.Printf("Quoting %s of base asset\n", units.Format(cfg.StartAmount, cfg.BaseDecimals))
		for _, venue := range []dex.Quoter{venue1, venue2} {
			out, err := venue.Quote(cmd.Context(), cfg.BaseToken, cfg.IntermediateToken, cfg.StartAmount)
			if err != nil {
				fmt.Printf("%s: quote failed: %v\n", venue.Name(), err)
				continue
			}
			implied := units.Ratio(out, cfg.StartAmount, cfg.IntermediateDecimals, cfg.BaseDecimals)
			fmt.Printf("%s: %s (~ %s per unit)\n", venue.Name(), units.Format(out, cfg.IntermediateDecimals), implied)
		}
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}
