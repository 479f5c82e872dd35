package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/config"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/handler"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/logger"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository/clickhouse"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	log.Info("Starting user lookup service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	ctx := context.Background()

	chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(chClient *clickhouse.Client) {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(chClient)

	repo := clickhouse.NewRepository(chClient, log)

	userService := service.NewUserService(repo, log)

	h := handler.NewHandler(userService, repo, log)

	addr := fmt.Sprintf(":%s", cfg.Service.APIPort)
	log.Info("API server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start API server", zap.Error(err))
	}
}
