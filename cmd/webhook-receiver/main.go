package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/chargily-pay/internal/app"
	"github.com/Adda-Baaj/chargily-pay/internal/config"
	"github.com/Adda-Baaj/chargily-pay/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "webhook receiver start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("webhook receiver starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	receiver, err := app.NewReceiver(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize receiver", "error", err)
		return err
	}

	if err := receiver.Run(ctx); err != nil {
		return fmt.Errorf("receiver run: %w", err)
	}

	return nil
}
