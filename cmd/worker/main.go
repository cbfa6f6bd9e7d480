package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resort/cmd"
	"resort/config"
	"resort/infrastructure/outbox"
	"resort/infrastructure/persistence/mysql"
	"resort/infrastructure/rediscache"
	"resort/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Worker.Enabled {
		logger.Info("Outbox worker is disabled by config; exiting")
		return nil
	}
	if cfg.Database.Type != "mysql" {
		// the server relays its own in-memory outbox
		logger.Info("Outbox worker needs the mysql database type; exiting",
			zap.String("database", cfg.Database.Type))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := cmd.OpenMySQL(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	var publisher outbox.Publisher = &outbox.LoggingPublisher{}
	if cfg.Redis.Enabled {
		client, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = rediscache.NewPublisher(client, cfg.Redis.ChannelPrefix)
	}

	worker, err := outbox.NewWorker(
		mysql.NewOutboxRepository(db),
		publisher,
		cfg.Worker.PollInterval,
		cfg.Worker.BatchSize,
		cfg.Worker.MaxRetries,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}

	logger.Info("Outbox relay starting",
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
	)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox worker exited with error: %w", err)
	}
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
