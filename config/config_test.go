package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
service_name: spotdex

dex_db:
  data_source: "host=${TEST_DB_HOST} dbname=spotdex sslmode=disable"
  max_open_conns: 20
  max_idle_conns: 5
  conn_max_life_time_ms: 300000
  migration_conn_url: "postgres://u:p@${TEST_DB_HOST}:5432/spotdex?sslmode=disable"
  slave_sources:
    - "host=replica dbname=spotdex"
  log_level: 1
  location: "UTC"

redis:
  connection_url: "redis://localhost:6379/0"
  pool_size: 10
  dial_timeout_seconds: 5

kafka:
  brokers:
    - "localhost:9092"
  trade_topic: spotdex.trades
  order_event_topic: spotdex.order_events
  group_id: spotdex-worker

assets:
  - ticker: DAI
    is_quote: true
  - ticker: ZRX
`

func TestLoadExpandsEnvAndParsesSections(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServiceName != "spotdex" {
		t.Errorf("service name = %q", cfg.ServiceName)
	}
	if cfg.DexDB == nil || cfg.DexDB.DataSource != "host=db.internal dbname=spotdex sslmode=disable" {
		t.Errorf("db data source not expanded: %+v", cfg.DexDB)
	}
	if cfg.DexDB.MaxOpenConns != 20 || cfg.DexDB.ConnMaxLifeTimeMiliseconds != 300000 {
		t.Errorf("db pool settings = %+v", cfg.DexDB)
	}
	if len(cfg.DexDB.SlaveSources) != 1 {
		t.Errorf("slave sources = %v", cfg.DexDB.SlaveSources)
	}
	if cfg.Redis == nil || cfg.Redis.PoolSize != 10 || cfg.Redis.DialTimeoutSeconds != 5 {
		t.Errorf("redis config = %+v", cfg.Redis)
	}
	if cfg.Kafka == nil || cfg.Kafka.TradeTopic != "spotdex.trades" || len(cfg.Kafka.Brokers) != 1 {
		t.Errorf("kafka config = %+v", cfg.Kafka)
	}
	if len(cfg.Assets) != 2 || !cfg.Assets[0].IsQuote || cfg.Assets[1].Ticker != "ZRX" {
		t.Errorf("assets = %+v", cfg.Assets)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
