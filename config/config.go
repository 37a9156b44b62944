package config

import (
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	postgres_wrapper "github.com/joripage/spotdex/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/spotdex/pkg/infra/redis"
)

type KafkaConfig struct {
	Brokers         []string `yaml:"brokers"`
	TradeTopic      string   `yaml:"trade_topic"`
	OrderEventTopic string   `yaml:"order_event_topic"`
	GroupID         string   `yaml:"group_id"`
	DLQTopic        string   `yaml:"dlq_topic"`
}

type FixConfig struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

type AssetConfig struct {
	Ticker  string `yaml:"ticker"`
	IsQuote bool   `yaml:"is_quote"`
}

type AppConfig struct {
	ServiceName string                           `yaml:"service_name"`
	DexDB       *postgres_wrapper.PostgresConfig `yaml:"dex_db"`
	Redis       *redis_wrapper.RedisConfig       `yaml:"redis"`
	Kafka       *KafkaConfig                     `yaml:"kafka"`
	Fix         *FixConfig                       `yaml:"fix"`
	API         *APIConfig                       `yaml:"api"`
	Assets      []AssetConfig                    `yaml:"assets"`
}

// Load load config from file and environment variables.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	fields := []interface{}{
		"func",
		"config.readFromFile",
		"filePath",
		filePath,
	}

	sugar := zap.S().With(fields...)

	sugar.Debug("Load config...")
	zap.S().Debugf("CONFIG_FILE=%v", filePath)

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("Failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}

	err = yaml.Unmarshal(configBytes, cfg)
	if err != nil {
		sugar.Error("Failed to parse config file")
		return nil, err
	}

	zap.S().Debugf("config: %+v", cfg)

	return cfg, nil
}
