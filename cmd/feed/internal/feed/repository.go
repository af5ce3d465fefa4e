// Package feed bridges the transport channel and the update codec with the
// instrument domain. The repository owns the active roster and the periodic
// price-generation cadence; subscribers only ever observe updates that have
// round-tripped through the transport.
package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/smeshko/tickers/cmd/feed/internal/codec"
	"github.com/smeshko/tickers/pkg/models"
)

const (
	// minPrice is the hard floor for generated prices.
	minPrice = 0.01
	// maxFluctuation bounds the per-tick percent change at ±2%.
	maxFluctuation = 0.02
	// maxSeedOffset bounds the random previous-price offset applied when
	// seeding the universe from the catalog.
	maxSeedOffset = 10.0

	subscriberBuffer = 16
)

// Repository drives the price feed: it perturbs the active roster once per
// tick, sends the batch over the transport, and broadcasts whatever comes
// back in.
type Repository struct {
	transport Transport
	catalog   Catalog
	logger    *zap.Logger
	clock     Clock
	rand      Rand
	interval  time.Duration

	mu     sync.Mutex
	roster []models.Stock
	cancel context.CancelFunc
	ticker Ticker

	subMu      sync.Mutex
	updateSubs []chan []models.PriceUpdate
}

func NewRepository(
	transport Transport,
	catalog Catalog,
	logger *zap.Logger,
	clock Clock,
	rnd Rand,
	interval time.Duration,
) *Repository {
	r := &Repository{
		transport: transport,
		catalog:   catalog,
		logger:    logger,
		clock:     clock,
		rand:      rnd,
		interval:  interval,
	}
	go r.consumeMessages()
	return r
}

// FetchStocks returns the full instrument universe seeded from the catalog.
// Each stock's previous price is the base price minus a random offset in
// [0, 10) for initial variety. No side effect on the active roster.
func (r *Repository) FetchStocks(ctx context.Context) ([]models.Stock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos := r.catalog.All()
	stocks := make([]models.Stock, 0, len(infos))
	for _, info := range infos {
		stock := models.NewStock(info.Symbol, info.Name, info.BasePrice)
		stock.PreviousPrice = info.BasePrice - r.rand.Float64()*maxSeedOffset
		stocks = append(stocks, stock)
	}
	return stocks, nil
}

// StockInfo looks up catalog metadata. Unknown symbols return false, never
// an error.
func (r *Repository) StockInfo(symbol string) (models.StockInfo, bool) {
	return r.catalog.Lookup(symbol)
}

// StartStreaming captures a private copy of the given stocks as the active
// roster, connects the transport, and arms the periodic generator. Repeated
// calls reset the roster and restart the timer.
func (r *Repository) StartStreaming(stocks []models.Stock) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()

	r.roster = append([]models.Stock(nil), stocks...)
	r.transport.Connect()

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.ticker = r.clock.NewTicker(r.interval)

	go r.runGenerator(ctx, r.ticker)
	r.logger.Info("Streaming started", zap.Int("roster_size", len(r.roster)))
}

// StopStreaming cancels the generator and closes the transport. Once it
// returns no further tick can fire. No-op when not streaming.
func (r *Repository) StopStreaming() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

// SubscribeState republishes the transport's connection-state stream.
func (r *Repository) SubscribeState() <-chan bool {
	return r.transport.SubscribeState()
}

// SubscribeUpdates registers a subscriber for decoded inbound price-update
// batches, delivered in decode order.
func (r *Repository) SubscribeUpdates() <-chan []models.PriceUpdate {
	ch := make(chan []models.PriceUpdate, subscriberBuffer)
	r.subMu.Lock()
	r.updateSubs = append(r.updateSubs, ch)
	r.subMu.Unlock()
	return ch
}

func (r *Repository) stopLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	r.transport.Disconnect()
}

func (r *Repository) runGenerator(ctx context.Context, ticker Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			r.tick(ctx)
		}
	}
}

// tick synthesizes one batch from the roster and sends it out. It takes the
// repository mutex and re-checks cancellation, so a tick racing
// StopStreaming either completes before the stop or does nothing.
func (r *Repository) tick(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	batch := make([]models.PriceUpdate, 0, len(r.roster))
	for _, stock := range r.roster {
		percentChange := r.rand.Float64()*(2*maxFluctuation) - maxFluctuation
		newPrice := stock.Price * (1 + percentChange)
		if newPrice < minPrice {
			newPrice = minPrice
		}
		batch = append(batch, models.PriceUpdate{Symbol: stock.Symbol, Price: newPrice})
	}

	frame, err := codec.Encode(batch)
	if err != nil {
		// Nothing to send this tick.
		r.logger.Warn("Encode failed, skipping tick", zap.Error(err))
		return
	}
	r.transport.Send(frame)
}

// consumeMessages decodes every inbound frame for the life of the
// repository. A frame that fails to decode is dropped whole. A decoded
// batch is applied to the roster first, then broadcast, so successive ticks
// compound on the last received price.
func (r *Repository) consumeMessages() {
	for message := range r.transport.SubscribeMessages() {
		batch, err := codec.Decode(message)
		if err != nil {
			r.logger.Debug("Dropping undecodable frame", zap.Error(err))
			continue
		}

		r.applyToRoster(batch)
		r.broadcast(batch)
	}
}

func (r *Repository) applyToRoster(batch []models.PriceUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, update := range batch {
		for i := range r.roster {
			if r.roster[i].Symbol == update.Symbol {
				r.roster[i].ApplyUpdate(update.Price)
				break
			}
		}
	}
}

func (r *Repository) broadcast(batch []models.PriceUpdate) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, ch := range r.updateSubs {
		ch <- batch
	}
}
