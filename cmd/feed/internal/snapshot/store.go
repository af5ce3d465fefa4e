// Package snapshot keeps the latest price per symbol in Redis so external
// consumers can read a point-in-time view or follow the pub/sub channels.
// One key per symbol, always overwritten; this is a cache, not history.
package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/smeshko/tickers/pkg/models"
)

const (
	keyPrefix     = "stock:"
	channelPrefix = "prices."
	snapshotTTL   = 1 * time.Hour // TTL prevents unbounded memory growth
)

// RedisClient abstracts the Redis connection
type RedisClient interface {
	Pipeline() redis.Pipeliner
	Close() error
}

// Compile-time check that the real client satisfies the interface
var _ RedisClient = (*redis.Client)(nil)

type Store struct {
	client RedisClient
	logger *zap.Logger
}

func NewStore(client RedisClient, logger *zap.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// Apply writes one batch: per update, an atomic SET + PUBLISH in a single
// pipeline so snapshot readers and channel followers see the same payload.
func (s *Store) Apply(ctx context.Context, batch []models.PriceUpdate) error {
	if len(batch) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, update := range batch {
		payload, err := json.Marshal(update)
		if err != nil {
			s.logger.Error("JSON Marshal Error", zap.Error(err), zap.String("symbol", update.Symbol))
			continue
		}
		pipe.Set(ctx, keyPrefix+update.Symbol, payload, snapshotTTL)
		pipe.Publish(ctx, channelPrefix+update.Symbol, payload)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Run consumes update batches until the context is canceled or the channel
// closes. Redis errors are logged and the loop keeps going.
func (s *Store) Run(ctx context.Context, updates <-chan []models.PriceUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-updates:
			if !ok {
				return
			}
			if err := s.Apply(ctx, batch); err != nil {
				s.logger.Error("Redis Pipeline Error", zap.Error(err))
			}
		}
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}
