package bridge_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/smeshko/tickers/cmd/feed/internal/bridge"
	"github.com/smeshko/tickers/cmd/feed/internal/testutils"
	"github.com/smeshko/tickers/pkg/models"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestPublishBatch_KeysAndEnvelope(t *testing.T) {
	writer := &testutils.MockKafkaWriter{}
	clock := fixedClock{now: time.Unix(1700000000, 0)}
	pub := bridge.NewPublisher(writer, zap.NewNop(), clock)

	batch := []models.PriceUpdate{
		{Symbol: "AAPL", Price: 176.75},
		{Symbol: "MSFT", Price: 374.10},
	}
	if err := pub.PublishBatch(context.Background(), batch); err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}

	writer.Mu.Lock()
	defer writer.Mu.Unlock()
	if len(writer.Messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(writer.Messages))
	}
	if string(writer.Messages[0].Key) != "AAPL" {
		t.Errorf("Expected key AAPL, got %s", writer.Messages[0].Key)
	}

	var record bridge.TickRecord
	if err := json.Unmarshal(writer.Messages[0].Value, &record); err != nil {
		t.Fatalf("Invalid JSON payload: %v", err)
	}
	if record.Symbol != "AAPL" || record.Price != 176.75 {
		t.Errorf("Unexpected record: %+v", record)
	}
	if record.Timestamp != clock.now.UnixMicro() {
		t.Errorf("Expected timestamp %d, got %d", clock.now.UnixMicro(), record.Timestamp)
	}
	if record.SeqID != 1 {
		t.Errorf("Expected seq 1, got %d", record.SeqID)
	}
}

func TestPublishBatch_SeqIDMonotonicPerSymbol(t *testing.T) {
	writer := &testutils.MockKafkaWriter{}
	pub := bridge.NewPublisher(writer, zap.NewNop(), bridge.RealClock{})
	ctx := context.Background()

	pub.PublishBatch(ctx, []models.PriceUpdate{{Symbol: "AAPL", Price: 1}, {Symbol: "MSFT", Price: 2}})
	pub.PublishBatch(ctx, []models.PriceUpdate{{Symbol: "AAPL", Price: 3}})

	writer.Mu.Lock()
	defer writer.Mu.Unlock()

	seqs := make(map[string][]int64)
	for _, msg := range writer.Messages {
		var record bridge.TickRecord
		json.Unmarshal(msg.Value, &record)
		seqs[record.Symbol] = append(seqs[record.Symbol], record.SeqID)
	}

	if got := seqs["AAPL"]; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected AAPL seqs [1 2], got %v", got)
	}
	if got := seqs["MSFT"]; len(got) != 1 || got[0] != 1 {
		t.Errorf("Expected MSFT seqs [1], got %v", got)
	}
}

func TestPublishBatch_EmptyIsNoOp(t *testing.T) {
	writer := &testutils.MockKafkaWriter{}
	pub := bridge.NewPublisher(writer, zap.NewNop(), bridge.RealClock{})

	if err := pub.PublishBatch(context.Background(), nil); err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}

	writer.Mu.Lock()
	defer writer.Mu.Unlock()
	if len(writer.Messages) != 0 {
		t.Errorf("Expected no messages, got %d", len(writer.Messages))
	}
}

func TestRun_DrainsUpdatesUntilCanceled(t *testing.T) {
	writer := &testutils.MockKafkaWriter{}
	pub := bridge.NewPublisher(writer, zap.NewNop(), bridge.RealClock{})

	updates := make(chan []models.PriceUpdate, 4)
	updates <- []models.PriceUpdate{{Symbol: "AAPL", Price: 1}}
	updates <- []models.PriceUpdate{{Symbol: "AAPL", Price: 2}}
	close(updates)

	pub.Run(context.Background(), updates) // returns when the channel closes

	writer.Mu.Lock()
	defer writer.Mu.Unlock()
	if len(writer.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(writer.Messages))
	}
}
