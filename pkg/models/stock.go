package models

// PriceDirection describes how a stock's price moved relative to its
// previous value.
type PriceDirection int

const (
	DirectionUnchanged PriceDirection = iota
	DirectionUp
	DirectionDown
)

func (d PriceDirection) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "unchanged"
	}
}

// Stock is a tradable instrument as tracked by the feed. Symbol is the
// identity; Price and PreviousPrice are the only mutable fields.
type Stock struct {
	Symbol        string
	Name          string
	Price         float64
	PreviousPrice float64
}

// NewStock builds a stock whose previous price defaults to the current
// price, so a freshly created stock reads as unchanged.
func NewStock(symbol, name string, price float64) Stock {
	return Stock{Symbol: symbol, Name: name, Price: price, PreviousPrice: price}
}

func (s Stock) Direction() PriceDirection {
	switch {
	case s.Price > s.PreviousPrice:
		return DirectionUp
	case s.Price < s.PreviousPrice:
		return DirectionDown
	default:
		return DirectionUnchanged
	}
}

// Change is the absolute move since the previous price.
func (s Stock) Change() float64 {
	return s.Price - s.PreviousPrice
}

// ChangePercent is the fractional move since the previous price. Returns 0
// when the previous price is not positive.
func (s Stock) ChangePercent() float64 {
	if s.PreviousPrice <= 0 {
		return 0
	}
	return s.Change() / s.PreviousPrice
}

// ApplyUpdate records a new price, shifting the current price into
// PreviousPrice.
func (s *Stock) ApplyUpdate(price float64) {
	s.PreviousPrice = s.Price
	s.Price = price
}

// PriceUpdate is a single market tick for a stock symbol as carried on the
// wire.
type PriceUpdate struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

// StockInfo is reference metadata for an instrument. Owned by the catalog,
// never mutated by the feed.
type StockInfo struct {
	Symbol      string
	Name        string
	Description string
	BasePrice   float64
}
