package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"autoshop-system/pkg/config"
	applogger "autoshop-system/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(&app{cfg: cfg, logger: logger}).ExecuteContext(ctx); err != nil {
		logger.Error("shopctl завершился с ошибкой", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
