package feed

import (
	"math/rand"
	"time"

	"github.com/smeshko/tickers/pkg/models"
)

// Transport is the duplex channel the repository streams over.
type Transport interface {
	Connect()
	Disconnect()
	Send(message string)
	SubscribeState() <-chan bool
	SubscribeMessages() <-chan string
}

// Catalog provides instrument reference data.
type Catalog interface {
	Lookup(symbol string) (models.StockInfo, bool)
	All() []models.StockInfo
}

// for deterministic testing
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// for deterministic values
type Rand interface {
	Float64() float64
}

type RealClock struct{}

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct{ ticker *time.Ticker }

func (t *realTicker) C() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()               { t.ticker.Stop() }

type RealRand struct{ *rand.Rand }

func (r RealRand) Float64() float64 { return r.Rand.Float64() }

// NewRealRand seeds a rand source for production use.
func NewRealRand() RealRand {
	return RealRand{rand.New(rand.NewSource(time.Now().UnixNano()))}
}
