package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/michaelpento.lv/arbwatch/utils"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "arbwatch",
	Short: "A read-only DEX arbitrage monitor",
	Long: `A monitor that polls two DEX quoter contracts for the same token
pair, evaluates both round-trip paths and flags opportunities whose net
result exceeds the configured profit threshold. It only quotes; it never
submits transactions.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (settings default to the environment)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func initConfig() {
	utils.InitLogger(debug)
}
