package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alaaMelook/Nature-Hug-sub001/gateway"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/analytics"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/discovery"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/events"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/lifecycle"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/packing"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/repository"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/shipping"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/storage"
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

	logger.Info("Starting storefront API",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// Storage
	store, err := repository.NewStore(&cfg.MySQL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	defer store.Close()

	cache := repository.NewRedisRepository(&cfg.Redis)
	defer cache.Close()

	audit, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	ctx := context.Background()
	defer audit.Close(ctx)

	// Events
	publisher := events.NewKafkaPublisher(&cfg.Kafka, logger.Named("events"))
	defer publisher.Close()

	// Domain services
	svc := lifecycle.NewService(store, audit, publisher, logger.Named("lifecycle"))

	packer, err := packing.NewDispatcher(svc, logger.Named("packing"))
	if err != nil {
		logger.Fatal("Failed to start packing actor", zap.Error(err))
	}
	defer packer.Shutdown()

	// Ping dependencies
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}
	if err := audit.Ping(ctx); err != nil {
		logger.Warn("MongoDB connection failed", zap.Error(err))
	} else {
		logger.Info("MongoDB connected successfully")
	}

	// Register in etcd
	registry, err := discovery.NewRegistry(&cfg.Etcd)
	if err != nil {
		logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
	} else {
		defer registry.Close()
		instance := &discovery.Instance{
			Name: cfg.Server.Name,
			Host: cfg.Server.Host,
			Port: cfg.Server.Port,
		}
		if err := registry.Register(ctx, instance); err != nil {
			logger.Warn("Failed to register service", zap.Error(err))
		} else {
			defer func() {
				if err := registry.Deregister(ctx, instance); err != nil {
					logger.Error("Failed to deregister service", zap.Error(err))
				}
			}()
		}
	}

	// HTTP gateway
	gw := gateway.NewGateway(cfg, logger.Named("gateway"), gateway.Deps{
		Store:     store,
		Cache:     cache,
		Audit:     audit,
		Lifecycle: svc,
		Packer:    packer,
		Shipping:  shipping.NewClient(&cfg.Shipping),
		Analytics: analytics.NewClient(&cfg.Analytics),
		Uploader:  storage.NewUploader(&cfg.Storage),
	})
	gw.SetupRoutes()

	serverErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	logger.Info("Service stopped")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}
