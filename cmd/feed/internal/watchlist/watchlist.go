// Package watchlist is the feed's consumer-side view: it keeps a local
// snapshot of the instrument universe and applies round-tripped price
// updates to it. It owns only derived state (sort order, per-symbol
// lookup); the repository's roster stays authoritative.
package watchlist

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/smeshko/tickers/pkg/models"
)

// PriceFeed is the repository contract the watchlist consumes.
type PriceFeed interface {
	FetchStocks(ctx context.Context) ([]models.Stock, error)
	StockInfo(symbol string) (models.StockInfo, bool)
	StartStreaming(stocks []models.Stock)
	StopStreaming()
	SubscribeState() <-chan bool
	SubscribeUpdates() <-chan []models.PriceUpdate
}

type Watchlist struct {
	feed   PriceFeed
	logger *zap.Logger

	mu        sync.RWMutex
	stocks    []models.Stock
	index     map[string]int
	streaming bool
	connected bool
	fetched   bool
}

func New(feed PriceFeed, logger *zap.Logger) *Watchlist {
	w := &Watchlist{
		feed:   feed,
		logger: logger,
		index:  make(map[string]int),
	}
	go w.consume(feed.SubscribeUpdates(), feed.SubscribeState())
	return w
}

// Start fetches the universe on first use and begins streaming it. A no-op
// while already streaming.
func (w *Watchlist) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.streaming {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	if err := w.ensureFetched(ctx); err != nil {
		return err
	}

	w.mu.Lock()
	roster := append([]models.Stock(nil), w.stocks...)
	w.streaming = true
	w.mu.Unlock()

	w.feed.StartStreaming(roster)
	return nil
}

// Stop halts streaming. The snapshot is kept.
func (w *Watchlist) Stop() {
	w.mu.Lock()
	if !w.streaming {
		w.mu.Unlock()
		return
	}
	w.streaming = false
	w.mu.Unlock()

	w.feed.StopStreaming()
}

func (w *Watchlist) Toggle(ctx context.Context) error {
	if w.IsStreaming() {
		w.Stop()
		return nil
	}
	return w.Start(ctx)
}

// Stocks returns the snapshot sorted by price, highest first.
func (w *Watchlist) Stocks() []models.Stock {
	w.mu.RLock()
	out := append([]models.Stock(nil), w.stocks...)
	w.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return out
}

// Stock looks up one instrument in the snapshot by symbol.
func (w *Watchlist) Stock(symbol string) (models.Stock, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i, ok := w.index[symbol]
	if !ok {
		return models.Stock{}, false
	}
	return w.stocks[i], true
}

func (w *Watchlist) IsStreaming() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.streaming
}

func (w *Watchlist) IsConnected() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.connected
}

func (w *Watchlist) ensureFetched(ctx context.Context) error {
	w.mu.RLock()
	fetched := w.fetched
	w.mu.RUnlock()
	if fetched {
		return nil
	}

	stocks, err := w.feed.FetchStocks(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.stocks = stocks
	w.index = make(map[string]int, len(stocks))
	for i, s := range stocks {
		w.index[s.Symbol] = i
	}
	w.fetched = true
	w.mu.Unlock()
	return nil
}

func (w *Watchlist) consume(updates <-chan []models.PriceUpdate, states <-chan bool) {
	for {
		select {
		case batch, ok := <-updates:
			if !ok {
				return
			}
			w.apply(batch)
		case connected, ok := <-states:
			if !ok {
				return
			}
			w.mu.Lock()
			w.connected = connected
			w.mu.Unlock()
			w.logger.Info("Connection state changed", zap.Bool("connected", connected))
		}
	}
}

func (w *Watchlist) apply(batch []models.PriceUpdate) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, update := range batch {
		i, ok := w.index[update.Symbol]
		if !ok {
			continue
		}
		w.stocks[i].ApplyUpdate(update.Price)
		w.logger.Debug("Applied update",
			zap.String("symbol", update.Symbol),
			zap.Float64("price", update.Price))
	}
}
