package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/notify"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.Load(configPath())
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting notification service",
		zap.Strings("brokers", cfg.Kafka.Brokers))

	consumer, err := notify.NewConsumer(&cfg.Kafka, logger)
	if err != nil {
		logger.Fatal("Failed to start consumer", zap.Error(err))
	}
	consumer.Start(context.Background())

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("Received shutdown signal")
	consumer.Stop()
	logger.Info("Notification service stopped")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}
