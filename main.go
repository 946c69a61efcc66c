package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/michaelpento.lv/arbwatch/cmd"
	"github.com/michaelpento.lv/arbwatch/utils"
)

func main() {
	log := utils.GetLogger()
	defer utils.CleanupLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Shutting down gracefully...")
		cancel()
	}()

	if err := cmd.ExecuteContext(ctx); err != nil {
		log.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}
