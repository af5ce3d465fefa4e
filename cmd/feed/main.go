package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/smeshko/tickers/cmd/feed/internal/bridge"
	"github.com/smeshko/tickers/cmd/feed/internal/catalog"
	"github.com/smeshko/tickers/cmd/feed/internal/feed"
	"github.com/smeshko/tickers/cmd/feed/internal/snapshot"
	"github.com/smeshko/tickers/cmd/feed/internal/transport"
	"github.com/smeshko/tickers/cmd/feed/internal/watchlist"
	"github.com/smeshko/tickers/pkg/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	channel := transport.NewChannel(cfg.Feed.EndpointURL, logger.Named("transport"))
	repo := feed.NewRepository(
		channel,
		catalog.New(),
		logger.Named("feed"),
		feed.RealClock{},
		feed.NewRealRand(),
		cfg.Feed.TickInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())

	var store *snapshot.Store
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		store = snapshot.NewStore(rdb, logger.Named("snapshot"))
		go store.Run(ctx, repo.SubscribeUpdates())
	}

	var publisher *bridge.Publisher
	if cfg.Kafka.Enabled {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(cfg.Kafka.Brokers...),
			Topic:    cfg.Kafka.Topic,
			Balancer: &kafka.LeastBytes{},
			// Batch writes to reduce network IO
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			Async:        true,
		}
		publisher = bridge.NewPublisher(writer, logger.Named("bridge"), bridge.RealClock{})
		go publisher.Run(ctx, repo.SubscribeUpdates())
	}

	watch := watchlist.New(repo, logger.Named("watchlist"))
	if err := watch.Start(ctx); err != nil {
		logger.Fatal("Failed to start streaming", zap.Error(err))
	}
	logger.Info("Feed Started",
		zap.String("endpoint", cfg.Feed.EndpointURL),
		zap.Duration("tick_interval", cfg.Feed.TickInterval))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutdown signal received")

	watch.Stop()
	cancel()

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing Kafka writer", zap.Error(err))
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("Error closing Redis", zap.Error(err))
		}
	}

	logger.Info("Feed exited cleanly")
}
