package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds settings shared by both binaries.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
}

// Pipeline holds batch-run settings.
type Pipeline struct {
	OutputDir    string `envconfig:"PIPELINE_OUTPUT_DIR" default:"./output"`
	LoadDatasets bool   `envconfig:"PIPELINE_LOAD_DATASETS" default:"false"`
	LoadBatchMax int    `envconfig:"PIPELINE_LOAD_BATCH_MAX" default:"2000"`
}

// ClickHouse holds storage connection settings.
type ClickHouse struct {
	Host            string `envconfig:"CLICKHOUSE_HOST" default:"localhost"`
	Port            string `envconfig:"CLICKHOUSE_PORT" default:"9000"`
	Database        string `envconfig:"CLICKHOUSE_DB" default:"default"`
	User            string `envconfig:"CLICKHOUSE_USER" default:""`
	Password        string `envconfig:"CLICKHOUSE_PASSWORD" default:""`
	UseTLS          bool   `envconfig:"CLICKHOUSE_USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"CLICKHOUSE_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"CLICKHOUSE_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CLICKHOUSE_CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type Config struct {
	Service    Service
	Pipeline   Pipeline
	ClickHouse ClickHouse
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
