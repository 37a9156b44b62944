package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/joripage/spotdex/config"
	"github.com/joripage/spotdex/pkg/api"
	"github.com/joripage/spotdex/pkg/custody"
	"github.com/joripage/spotdex/pkg/dex"
	"github.com/joripage/spotdex/pkg/exchange"
	fixgateway "github.com/joripage/spotdex/pkg/gateway/fix"
	redis_wrapper "github.com/joripage/spotdex/pkg/infra/redis"
	kafkawrapper "github.com/joripage/spotdex/pkg/kafka_wrapper"
	"github.com/joripage/spotdex/pkg/logging"
	"github.com/joripage/spotdex/pkg/marketdata"
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

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	vault := custody.NewVault()
	registry := exchange.NewAssetRegistry()
	for _, a := range cfg.Assets {
		if err := registry.Register(exchange.Asset{
			Ticker:  exchange.Ticker(a.Ticker),
			IsQuote: a.IsQuote,
		}); err != nil {
			zap.S().Fatalf("register asset %s: %v", a.Ticker, err)
		}
	}
	engine := exchange.NewEngine(registry, vault)

	fixGateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
		ConfigFilepath: cfg.Fix.ConfigFilepath,
	})
	gateways := dex.NewGatewayMux(fixGateway)
	d := dex.NewDex(gateways, engine)
	fixGateway.AddExchange(d)

	var md *marketdata.Publisher
	if cfg.Redis != nil {
		redisClient, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			zap.S().Fatalf("init redis: %v", err)
		}
		md = marketdata.NewPublisher(engine, redisClient)
		d.SetDepthPublisher(md)
	}

	if cfg.API != nil {
		apiServer := api.NewServer(&api.Config{Addr: cfg.API.Addr}, d, engine, registry, md)
		apiServer.SetFaucet(vault)
		gateways.Add(apiServer)
	}

	if cfg.Kafka != nil {
		producer := kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
		})
		defer producer.Close() // nolint
		d.SetProducer(producer, cfg.Kafka.TradeTopic, cfg.Kafka.OrderEventTopic)
	}

	if err := d.Start(ctx); err != nil {
		zap.S().Fatalf("start: %v", err)
	}
	zap.S().Infof("%s started", cfg.ServiceName)

	<-sigs
	zap.S().Info("shutting down...")
	fixGateway.Stop()
	cancel()
}
