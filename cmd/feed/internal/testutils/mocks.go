package testutils

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/smeshko/tickers/cmd/feed/internal/feed"
	"github.com/smeshko/tickers/pkg/models"
)

// MockTransport simulates the websocket channel. It supports a single
// subscriber per stream, which is all the repository needs.
type MockTransport struct {
	Mu              sync.Mutex
	Connected       bool
	ConnectCalls    int
	DisconnectCalls int
	SentFrames      []string

	// Sent receives every frame passed to Send, for tests that wait on
	// asynchronous ticks.
	Sent chan string

	stateCh chan bool
	msgCh   chan string
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		Sent:    make(chan string, 64),
		stateCh: make(chan bool, 64),
		msgCh:   make(chan string, 64),
	}
}

func (m *MockTransport) Connect() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Connected {
		return
	}
	m.Connected = true
	m.ConnectCalls++
	m.stateCh <- true
}

func (m *MockTransport) Disconnect() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if !m.Connected {
		return
	}
	m.Connected = false
	m.DisconnectCalls++
	m.stateCh <- false
}

func (m *MockTransport) Send(message string) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if !m.Connected {
		return
	}
	m.SentFrames = append(m.SentFrames, message)
	m.Sent <- message
}

func (m *MockTransport) SubscribeState() <-chan bool      { return m.stateCh }
func (m *MockTransport) SubscribeMessages() <-chan string { return m.msgCh }

// PushMessage delivers an inbound frame as if received from the remote end.
func (m *MockTransport) PushMessage(message string) { m.msgCh <- message }

func (m *MockTransport) SentCount() int {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return len(m.SentFrames)
}

// MockClock hands out tickers that fire only when the test says so.
type MockClock struct {
	Mu      sync.Mutex
	Tickers []*MockTicker
}

func (c *MockClock) NewTicker(d time.Duration) feed.Ticker {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	t := &MockTicker{ch: make(chan time.Time, 1)}
	c.Tickers = append(c.Tickers, t)
	return t
}

// Fire triggers one tick on the most recently created ticker.
func (c *MockClock) Fire() {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if len(c.Tickers) == 0 {
		return
	}
	c.Tickers[len(c.Tickers)-1].Fire()
}

type MockTicker struct {
	ch      chan time.Time
	stopped bool
	mu      sync.Mutex
}

func (t *MockTicker) C() <-chan time.Time { return t.ch }

func (t *MockTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *MockTicker) Fire() {
	select {
	case t.ch <- time.Now():
	default:
	}
}

// MockRand returns queued values first, then the fixed fallback.
type MockRand struct {
	Mu   sync.Mutex
	Vals []float64
	Val  float64
}

func (r *MockRand) Float64() float64 {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if len(r.Vals) > 0 {
		v := r.Vals[0]
		r.Vals = r.Vals[1:]
		return v
	}
	return r.Val
}

// MockKafkaWriter records written messages.
type MockKafkaWriter struct {
	Mu         sync.Mutex
	Messages   []kafka.Message
	ShouldFail bool
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("kafka error")
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error { return nil }

// MockFeed implements the watchlist's PriceFeed contract.
type MockFeed struct {
	Mu         sync.Mutex
	Stocks     []models.Stock
	FetchErr   error
	FetchCalls int
	StartCalls int
	StopCalls  int
	LastRoster []models.Stock

	UpdatesCh chan []models.PriceUpdate
	StateCh   chan bool
}

func NewMockFeed(stocks []models.Stock) *MockFeed {
	return &MockFeed{
		Stocks:    stocks,
		UpdatesCh: make(chan []models.PriceUpdate, 64),
		StateCh:   make(chan bool, 64),
	}
}

func (m *MockFeed) FetchStocks(ctx context.Context) ([]models.Stock, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	return append([]models.Stock(nil), m.Stocks...), nil
}

func (m *MockFeed) StockInfo(symbol string) (models.StockInfo, bool) {
	for _, s := range m.Stocks {
		if s.Symbol == symbol {
			return models.StockInfo{Symbol: s.Symbol, Name: s.Name, BasePrice: s.Price}, true
		}
	}
	return models.StockInfo{}, false
}

func (m *MockFeed) StartStreaming(stocks []models.Stock) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.StartCalls++
	m.LastRoster = append([]models.Stock(nil), stocks...)
}

func (m *MockFeed) StopStreaming() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.StopCalls++
}

func (m *MockFeed) SubscribeState() <-chan bool                   { return m.StateCh }
func (m *MockFeed) SubscribeUpdates() <-chan []models.PriceUpdate { return m.UpdatesCh }
