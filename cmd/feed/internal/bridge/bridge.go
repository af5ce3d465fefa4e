// Package bridge republishes round-tripped price updates to a Kafka topic
// for downstream processors. Messages are keyed by symbol so partition
// order holds per instrument, and carry a per-symbol sequence id consumers
// can dedup on.
package bridge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/smeshko/tickers/pkg/models"
)

// KafkaWriter abstracts the output stream
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// for deterministic testing
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// TickRecord is the envelope published downstream.
type TickRecord struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"` // unix micro
	SeqID     int64   `json:"seq_id"`    // monotonic counter per symbol
}

type Publisher struct {
	writer KafkaWriter
	logger *zap.Logger
	clock  Clock

	seqCounters map[string]int64
}

func NewPublisher(writer KafkaWriter, logger *zap.Logger, clock Clock) *Publisher {
	return &Publisher{
		writer:      writer,
		logger:      logger,
		clock:       clock,
		seqCounters: make(map[string]int64),
	}
}

// PublishBatch writes one decoded batch to the topic. Not safe for
// concurrent use; Run is the single caller.
func (p *Publisher) PublishBatch(ctx context.Context, batch []models.PriceUpdate) error {
	if len(batch) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(batch))
	for _, update := range batch {
		p.seqCounters[update.Symbol]++
		record := TickRecord{
			Symbol:    update.Symbol,
			Price:     update.Price,
			Timestamp: p.clock.Now().UnixMicro(),
			SeqID:     p.seqCounters[update.Symbol],
		}

		payload, err := json.Marshal(record)
		if err != nil {
			p.logger.Error("JSON Marshal Error", zap.Error(err), zap.String("symbol", update.Symbol))
			continue
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(update.Symbol), // Key ensures partition ordering
			Value: payload,
		})
	}

	if len(msgs) == 0 {
		return nil
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// Run consumes update batches until the context is canceled or the channel
// closes. Write errors are logged and the loop keeps going.
func (p *Publisher) Run(ctx context.Context, updates <-chan []models.PriceUpdate) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-updates:
			if !ok {
				return
			}
			if err := p.PublishBatch(ctx, batch); err != nil {
				p.logger.Error("Kafka Write Error", zap.Error(err))
			}
		}
	}
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
