package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/config"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/logger"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/pipeline"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/repository/clickhouse"
	"github.com/VoOoLoX/nordeus-data-engineering-challenge/internal/sink"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <jsonl-events-file> <jsonl-exchange-rates-file>\n", os.Args[0])
		os.Exit(1)
	}

	eventsPath := os.Args[1]
	ratesPath := os.Args[2]

	for _, path := range []string{eventsPath, ratesPath} {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(os.Stderr, "File %s does not exist\n", path)
			os.Exit(1)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Service.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	eventLines, err := readLines(eventsPath)
	if err != nil {
		log.Fatal("Failed to read events file", zap.String("path", eventsPath), zap.Error(err))
	}
	rateLines, err := readLines(ratesPath)
	if err != nil {
		log.Fatal("Failed to read exchange rates file", zap.String("path", ratesPath), zap.Error(err))
	}

	sinks := sink.Multi{sink.NewCSVSink(cfg.Pipeline.OutputDir)}

	if cfg.Pipeline.LoadDatasets {
		ctx := context.Background()

		chClient, err := clickhouse.NewClient(ctx, &cfg.ClickHouse, log)
		if err != nil {
			log.Fatal("Failed to create ClickHouse client", zap.Error(err))
		}
		defer func() {
			if err := chClient.Close(); err != nil {
				log.Error("Failed to close ClickHouse client", zap.Error(err))
			}
		}()

		repo := clickhouse.NewRepository(chClient, log)
		if err := repo.InitSchema(ctx); err != nil {
			log.Fatal("Failed to initialize schema", zap.Error(err))
		}

		sinks = append(sinks, sink.NewStoreSink(repo, cfg.Pipeline.LoadBatchMax, log))
	}

	p := pipeline.New(log)
	if err := p.Run(eventLines, rateLines, sinks); err != nil {
		log.Fatal("Pipeline failed", zap.Error(err))
	}

	if err := sinks.Close(); err != nil {
		log.Fatal("Failed to finalize datasets", zap.Error(err))
	}

	log.Info("Pipeline finished", zap.String("output_dir", cfg.Pipeline.OutputDir))
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
