package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/joripage/spotdex/config"
	"github.com/joripage/spotdex/pkg/dex/repo"
	"github.com/joripage/spotdex/pkg/dex/worker"
	postgres_wrapper "github.com/joripage/spotdex/pkg/infra/postgres"
	kafkawrapper "github.com/joripage/spotdex/pkg/kafka_wrapper"
	"github.com/joripage/spotdex/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	logger := logging.NewLogger(logging.INFO)
	defer logger.Sync() // nolint
	zap.ReplaceGlobals(logger.Zap())

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	db, err := postgres_wrapper.InitPostgres(cfg.DexDB)
	if err != nil {
		zap.S().Fatalf("init db: %v", err)
	}

	sqlRepo := repo.NewRepo(db)
	w := worker.NewWorker(sqlRepo)

	tradeConsumer := kafkawrapper.NewConsumerGroup(kafkawrapper.ConsumerConfig{
		Brokers:  cfg.Kafka.Brokers,
		GroupID:  cfg.Kafka.GroupID,
		Topic:    cfg.Kafka.TradeTopic,
		DLQTopic: cfg.Kafka.DLQTopic,
	})
	defer tradeConsumer.Close() // nolint

	eventConsumer := kafkawrapper.NewConsumerGroup(kafkawrapper.ConsumerConfig{
		Brokers:  cfg.Kafka.Brokers,
		GroupID:  cfg.Kafka.GroupID,
		Topic:    cfg.Kafka.OrderEventTopic,
		DLQTopic: cfg.Kafka.DLQTopic,
	})
	defer eventConsumer.Close() // nolint

	go func() {
		if err := w.ConsumeTrades(ctx, tradeConsumer); err != nil && err != context.Canceled {
			zap.S().Errorf("trade consumer: %v", err)
		}
	}()
	go func() {
		if err := w.ConsumeOrderEvents(ctx, eventConsumer); err != nil && err != context.Canceled {
			zap.S().Errorf("order event consumer: %v", err)
		}
	}()

	zap.S().Info("worker started")
	<-sigs
	zap.S().Info("shutting down...")
	cancel()
}
